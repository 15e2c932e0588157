package ports

import "time"

type SchedulerService interface {
	Start()
	Stop()
	// ScheduleTaskOnce runs task at the given unix time, right away if it is in the past.
	ScheduleTaskOnce(at int64, task func()) error
	ScheduleTaskEvery(interval time.Duration, task func()) error
}
