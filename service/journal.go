package service

import (
	"fmt"
	"time"

	"github.com/boltdb/bolt"
	jsoniter "github.com/json-iterator/go"
	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/uslng/membergate/common"
	"github.com/uslng/membergate/db"
	"github.com/uslng/membergate/model"
)

// RecordOutcome appends a terminal verification outcome to the journal.
// Keys are prefixed with the resolution timestamp so iteration order is
// chronological.
func RecordOutcome(o model.VerificationOutcome) error {
	if o.ResolvedAt.IsZero() {
		o.ResolvedAt = time.Now()
	}
	if o.ID == "" {
		id, err := gonanoid.New()
		if err != nil {
			return err
		}
		o.ID = id
	}
	return db.DB().Update(func(tx *bolt.Tx) error {
		bkt, err := tx.CreateBucketIfNotExists([]byte(model.BucketJournal))
		if err != nil {
			return err
		}
		b, err := jsoniter.Marshal(&o)
		if err != nil {
			return err
		}
		key := fmt.Sprintf("%020d-%v", o.ResolvedAt.UnixNano(), o.ID)
		return bkt.Put([]byte(key), b)
	})
}

// ListOutcomesByIdentifier returns the most recent outcomes of the group
// with the given opaque identifier, oldest first, at most limit entries.
func ListOutcomesByIdentifier(identifier string, limit int) ([]model.VerificationOutcome, error) {
	var outcomes []model.VerificationOutcome
	err := db.DB().View(func(tx *bolt.Tx) error {
		bkt := tx.Bucket([]byte(model.BucketJournal))
		if bkt == nil {
			return nil
		}
		return bkt.ForEach(func(k, v []byte) error {
			var o model.VerificationOutcome
			if err := jsoniter.Unmarshal(v, &o); err != nil {
				return nil
			}
			if common.StringToUUID5(o.GroupID) != identifier {
				return nil
			}
			outcomes = append(outcomes, o)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(outcomes) > limit {
		outcomes = outcomes[len(outcomes)-limit:]
	}
	return outcomes, nil
}

// BoltJournal adapts the journal functions to the engine's Journal
// interface.
type BoltJournal struct{}

func (BoltJournal) Record(o model.VerificationOutcome) error {
	return RecordOutcome(o)
}
