package models

type StatusCounts struct {
	Waiting   int `json:"waiting"`
	Serving   int `json:"serving"`
	Completed int `json:"completed"`
	Canceled  int `json:"canceled"`
	Total     int `json:"total"`
}

func (c *StatusCounts) Add(status QueueStatus, n int) {
	switch status {
	case StatusWaiting:
		c.Waiting += n
	case StatusServing:
		c.Serving += n
	case StatusCompleted:
		c.Completed += n
	case StatusCanceled:
		c.Canceled += n
	default:
		return
	}
	c.Total += n
}

type DashboardStats struct {
	Date                  string       `json:"date"`
	Counts                StatusCounts `json:"counts"`
	AverageWaitMinutes    int          `json:"average_wait_minutes"`
	AverageServiceMinutes int          `json:"average_service_minutes"`
}
