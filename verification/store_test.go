package verification

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/uslng/membergate/model"
)

func pending(group, user, code string, createdAt time.Time) model.PendingVerification {
	return model.PendingVerification{
		GroupID:   group,
		UserID:    user,
		Code:      code,
		CreatedAt: createdAt,
	}
}

func TestStoreCreateReplaces(t *testing.T) {
	s := NewStore()
	now := time.Now()
	s.Create(pending("G1", "U1", "first111", now))
	s.Create(pending("G1", "U1", "second22", now.Add(time.Second)))

	p, ok := s.Get(model.VerificationKey{GroupID: "G1", UserID: "U1"})
	require.True(t, ok)
	require.Equal(t, "second22", p.Code)
	require.Equal(t, 1, s.Len())
}

func TestStoreKeysDoNotCollide(t *testing.T) {
	s := NewStore()
	now := time.Now()
	// a separator inside an identifier must not merge two keys
	s.Create(pending("G1-U", "1", "aaaaaaaa", now))
	s.Create(pending("G1", "U-1", "bbbbbbbb", now))
	require.Equal(t, 2, s.Len())
}

func TestStoreDeleteIdempotent(t *testing.T) {
	s := NewStore()
	key := model.VerificationKey{GroupID: "G1", UserID: "U1"}
	s.Create(pending("G1", "U1", "code1234", time.Now()))
	s.Delete(key)
	s.Delete(key)
	_, ok := s.Get(key)
	require.False(t, ok)
}

func TestStoreTake(t *testing.T) {
	s := NewStore()
	key := model.VerificationKey{GroupID: "G1", UserID: "U1"}
	s.Create(pending("G1", "U1", "code1234", time.Now()))

	p, ok := s.Take(key)
	require.True(t, ok)
	require.Equal(t, "code1234", p.Code)

	_, ok = s.Take(key)
	require.False(t, ok)
}

func TestStoreTakeMatching(t *testing.T) {
	s := NewStore()
	key := model.VerificationKey{GroupID: "G1", UserID: "U1"}
	s.Create(pending("G1", "U1", "code1234", time.Now()))

	_, ok := s.TakeMatching(key, "othercode")
	require.False(t, ok)
	_, ok = s.Get(key)
	require.True(t, ok, "record must survive a mismatched take")

	p, ok := s.TakeMatching(key, "code1234")
	require.True(t, ok)
	require.Equal(t, "U1", p.UserID)
	_, ok = s.Get(key)
	require.False(t, ok)
}

func TestStoreListExpired(t *testing.T) {
	s := NewStore()
	now := time.Now()
	s.Create(pending("G1", "old", "aaaaaaaa", now.Add(-11*time.Minute)))
	s.Create(pending("G1", "fresh", "bbbbbbbb", now.Add(-1*time.Minute)))

	expired := s.ListExpired(now, 10*time.Minute)
	require.Len(t, expired, 1)
	require.Equal(t, "old", expired[0].UserID)
}

func TestStoreListByGroup(t *testing.T) {
	s := NewStore()
	now := time.Now()
	s.Create(pending("G1", "U1", "aaaaaaaa", now))
	s.Create(pending("G1", "U2", "bbbbbbbb", now))
	s.Create(pending("G2", "U3", "cccccccc", now))

	require.Len(t, s.ListByGroup("G1"), 2)
	require.Len(t, s.ListByGroup("G2"), 1)
	require.Empty(t, s.ListByGroup("G3"))
	require.Len(t, s.List(), 3)
}
