package main

import (
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
)

var cleanScheduler gocron.Scheduler

func StartExpiredCleanSchedule(interval time.Duration) error {
	var err error
	cleanScheduler, err = gocron.NewScheduler()
	if err != nil {
		return err
	}
	job, err := cleanScheduler.NewJob(gocron.DurationJob(interval), gocron.NewTask(cleanTask))
	if err != nil {
		return err
	}
	log.Printf("clean job %s every %s", job.ID(), interval)
	cleanScheduler.Start()
	return nil
}

func StopScheduler() {
	if cleanScheduler == nil {
		return
	}
	if err := cleanScheduler.Shutdown(); err != nil {
		log.Println(err)
	}
}
