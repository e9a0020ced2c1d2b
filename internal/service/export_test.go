package service

import "time"

func (s *AlertEngine) SetClock(now func() time.Time) { s.now = now }
