package main

import (
	"log"

	"github.com/tevino/abool/v2"
)

const kCleanBatch = 2000

var cleanRunning = abool.NewBool(false)

// cleanTask soft-deletes runs past the retention period. Overlapping
// invocations return immediately.
func cleanTask() {
	if !cleanRunning.SetToIf(false, true) {
		return
	}
	defer cleanRunning.UnSet()
	for {
		expired, err := FindExpiredRunsWithLimit(config.Retention, kCleanBatch)
		if err != nil {
			log.Println(err)
			return
		}
		if len(expired) == 0 {
			return
		}
		ids := make([]int64, 0, len(expired))
		for _, e := range expired {
			ids = append(ids, e.ID)
		}
		if err := DeleteRuns(ids); err != nil {
			log.Println(err)
			return
		}
		runsExpired.Add(int64(len(ids)))
		if len(expired) < kCleanBatch {
			return
		}
	}
}
