package main

import (
	"time"

	"github.com/boltdb/bolt"
	jsoniter "github.com/json-iterator/go"

	"github.com/uslng/membergate/common"
	"github.com/uslng/membergate/db"
	"github.com/uslng/membergate/model"
	"github.com/uslng/membergate/pkg/log"
)

const journalRetention = 30 * 24 * time.Hour

func GoBackgrounds() {
	// trim old journal entries
	go ExpireCleanBackground(model.BucketJournal, 6*time.Hour, func(b []byte, now time.Time) (expired bool) {
		var o model.VerificationOutcome
		if err := jsoniter.Unmarshal(b, &o); err != nil {
			// invalid entries are regarded as expired
			return true
		}
		return common.Expired(o.ResolvedAt.Add(journalRetention))
	})()
}

func ExpireCleanBackground(bucket string, cleanInterval time.Duration, f func(b []byte, now time.Time) (expired bool)) func() {
	return func() {
		tick := time.Tick(cleanInterval)
		for now := range tick {
			if err := db.DB().Update(func(tx *bolt.Tx) error {
				bkt, err := tx.CreateBucketIfNotExists([]byte(bucket))
				if err != nil {
					return err
				}
				var listClean [][]byte
				if err = bkt.ForEach(func(k, b []byte) error {
					if f(b, now) {
						key := make([]byte, len(k))
						copy(key, k)
						listClean = append(listClean, key)
					}
					return nil
				}); err != nil {
					return err
				}
				for _, k := range listClean {
					if err := bkt.Delete(k); err != nil {
						return err
					}
				}
				if len(listClean) > 0 {
					log.Info("cleaned %v entries from bucket %v", len(listClean), bucket)
				}
				return nil
			}); err != nil {
				log.Warn("ExpireCleanBackground (%v): %v", bucket, err)
			}
		}
	}
}
