package common

import (
	"time"

	"github.com/google/uuid"
)

// StringToUUID5 derives a stable opaque identifier from a raw platform ID.
// The web API exposes groups by this identifier instead of the raw chat ID.
func StringToUUID5(str string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(str)).String()
}

func Expired(expireAt time.Time) bool {
	return time.Now().After(expireAt)
}

func Deduplicate(list []string) []string {
	res := make([]string, 0, len(list))
	m := make(map[string]struct{})
	for _, v := range list {
		if _, ok := m[v]; ok {
			continue
		}
		m[v] = struct{}{}
		res = append(res, v)
	}
	return res
}

func SliceToSet(slice []string) map[string]struct{} {
	var m = make(map[string]struct{})
	for _, s := range slice {
		m[s] = struct{}{}
	}
	return m
}
