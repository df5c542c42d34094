package reading

import (
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TimeLayout is the fixed format of string-typed timestamps in the
// collection. The zero-padded layout keeps lexicographic order equal to
// chronological order, which is what makes the string branch of the
// window predicate valid.
const TimeLayout = "2006-01-02 15:04:05"

const (
	dateLayout  = "2006-01-02"
	monthLayout = "2006-01"
)

// ReconcileTimestamp normalizes a stored timestamp to a UTC instant.
// It accepts a BSON datetime (decoded as primitive.DateTime), a native
// time.Time (in-memory repository), or a TimeLayout string. String
// timestamps carry no zone marker; they are treated as UTC wall-clock,
// matching the convention of the importers that wrote them.
func ReconcileTimestamp(raw any) (time.Time, error) {
	switch v := raw.(type) {
	case time.Time:
		return v.UTC(), nil
	case primitive.DateTime:
		return v.Time().UTC(), nil
	case string:
		t, err := time.Parse(time.RFC3339, strings.Replace(v, " ", "T", 1)+"Z")
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %q", ErrUnparseableTimestamp, v)
		}
		return t.UTC(), nil
	default:
		return time.Time{}, fmt.Errorf("%w: unsupported type %T", ErrUnparseableTimestamp, raw)
	}
}

// Window is a query range carried in both timestamp representations.
// The two representations are not comparable to each other in the
// store, so a window holds matching bounds per branch and Filter emits
// a predicate that evaluates each branch against its own type.
type Window struct {
	// Bounds for date-typed timestamps. End is inclusive unless
	// EndExclusive is set.
	Start        time.Time
	End          time.Time
	EndExclusive bool

	// Bounds for string-typed timestamps, always inclusive, compared
	// lexicographically.
	StartString string
	EndString   string
}

// DayWindow builds the window covering one calendar day, inclusive on
// both ends in both representations.
func DayWindow(date string) (Window, error) {
	day, err := time.Parse(dateLayout, date)
	if err != nil {
		return Window{}, fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	return Window{
		Start:       day,
		End:         day.Add(23*time.Hour + 59*time.Minute + 59*time.Second),
		StartString: date + " 00:00:00",
		EndString:   date + " 23:59:59",
	}, nil
}

// MonthWindow builds the window covering one calendar month.
//
// The two branches use different upper-bound conventions: the date
// branch is exclusive of the first instant of the next month while the
// string branch is inclusive of the last second of the last day. Both
// are preserved from the behavior the frontend was built against; do
// not merge them without a product decision.
func MonthWindow(month string) (Window, error) {
	first, err := time.Parse(monthLayout, month)
	if err != nil {
		return Window{}, fmt.Errorf("%w: %q", ErrInvalidMonth, month)
	}
	next := first.AddDate(0, 1, 0)
	last := next.AddDate(0, 0, -1)
	return Window{
		Start:        first,
		End:          next,
		EndExclusive: true,
		StartString:  month + "-01 00:00:00",
		EndString:    last.Format(dateLayout) + " 23:59:59",
	}, nil
}

// Days returns the number of calendar days the window spans. Only
// meaningful for windows built by MonthWindow.
func (w Window) Days() int {
	return w.End.AddDate(0, 0, -1).Day()
}

// Filter builds the find predicate for this window: exact station
// match, pollutant present and non-null, and the timestamp falling in
// the window under whichever representation the document carries.
func (w Window) Filter(station, pollutant string) bson.M {
	dateBounds := bson.M{
		"$type": "date",
		"$gte":  primitive.NewDateTimeFromTime(w.Start),
	}
	if w.EndExclusive {
		dateBounds["$lt"] = primitive.NewDateTimeFromTime(w.End)
	} else {
		dateBounds["$lte"] = primitive.NewDateTimeFromTime(w.End)
	}

	stringBounds := bson.M{
		"$type": "string",
		"$gte":  w.StartString,
		"$lte":  w.EndString,
	}

	return bson.M{
		"station":                  station,
		"pollutants." + pollutant: bson.M{"$ne": nil},
		"$or": bson.A{
			bson.M{"timestamp": dateBounds},
			bson.M{"timestamp": stringBounds},
		},
	}
}

// Contains reports whether a raw stored timestamp falls inside the
// window, branching on representation exactly like Filter does. Used
// by the in-memory repository.
func (w Window) Contains(raw any) bool {
	switch v := raw.(type) {
	case string:
		return v >= w.StartString && v <= w.EndString
	case time.Time:
		return w.containsInstant(v)
	case primitive.DateTime:
		return w.containsInstant(v.Time())
	default:
		return false
	}
}

func (w Window) containsInstant(t time.Time) bool {
	if t.Before(w.Start) {
		return false
	}
	if w.EndExclusive {
		return t.Before(w.End)
	}
	return !t.After(w.End)
}
