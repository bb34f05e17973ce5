package jobs

import (
	"github.com/go-co-op/gocron/v2"
	"github.com/labstack/gommon/log"
	"github.com/wajahatariq/twhspecfastapi/api/handlers"
)

// NightTotalJob logs the combined night charged total once the 19:00-06:00
// window has closed.
func NightTotalJob(h handlers.Handlers, scheduler gocron.Scheduler, atTimes gocron.AtTimes) (gocron.Job, error) {
	job, err := scheduler.NewJob(gocron.DailyJob(1, atTimes), gocron.NewTask(func() error {
		log.Info("Running nightTotalJob")

		total, err := h.Data.Txns.NightChargedTotal("")
		if err != nil {
			return err
		}

		log.Infof("night charged total: %.2f", total)
		return nil
	}))

	return job, err
}
