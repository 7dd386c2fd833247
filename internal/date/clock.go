package date

import "time"

// Clock reports the current calendar day.
type Clock interface {
	Today() Date
}

// SystemClock reads the wall clock in Location, or UTC when it is nil.
type SystemClock struct {
	Location *time.Location
}

func (c SystemClock) Today() Date {
	now := time.Now()
	if c.Location != nil {
		now = now.In(c.Location)
	} else {
		now = now.UTC()
	}
	return FromTime(now)
}

// FixedClock always reports the same day.
type FixedClock Date

func (c FixedClock) Today() Date {
	return Date(c)
}

// NewSystemClock loads the named time zone. An empty name means UTC.
func NewSystemClock(timezone string) (SystemClock, error) {
	if timezone == "" {
		return SystemClock{Location: time.UTC}, nil
	}
	location, err := time.LoadLocation(timezone)
	if err != nil {
		return SystemClock{}, err
	}
	return SystemClock{Location: location}, nil
}
