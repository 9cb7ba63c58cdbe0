package payments

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"rentals-dashboard/app/models"
	"rentals-dashboard/app/views"
)

var monthNames = [...]string{"Janvier", "Février", "Mars", "Avril", "Mai", "Juin", "Juillet", "Août", "Septembre", "Octobre", "Novembre", "Décembre"}

// WeekdayLabels heads the calendar grid, which starts on Sunday.
var WeekdayLabels = []string{"Dim", "Lun", "Mar", "Mer", "Jeu", "Ven", "Sam"}

// Month is one page of the payment calendar.
type Month struct {
	Year         int
	Month        time.Month
	FirstWeekday int
	DaysInMonth  int
}

// NewMonth normalises out-of-range months, so NewMonth(2024, 13) is January 2025.
func NewMonth(year int, month time.Month) Month {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	// day 0 of the next month is the last day of this one
	last := time.Date(first.Year(), first.Month()+1, 0, 0, 0, 0, 0, time.UTC)
	return Month{
		Year:         first.Year(),
		Month:        first.Month(),
		FirstWeekday: int(first.Weekday()),
		DaysInMonth:  last.Day(),
	}
}

func (m Month) Prev() Month { return NewMonth(m.Year, m.Month-1) }
func (m Month) Next() Month { return NewMonth(m.Year, m.Month+1) }

func (m Month) Name() string {
	return monthNames[m.Month-1]
}

// Contains reports whether d falls in this month.
func (m Month) Contains(d models.Date) bool {
	return d.Year() == m.Year && d.Month() == m.Month
}

// Slots lists the grid cells: FirstWeekday nil placeholders, then days 1..DaysInMonth.
func (m Month) Slots() []*int {
	slots := make([]*int, m.FirstWeekday, m.FirstWeekday+m.DaysInMonth)
	for d := 1; d <= m.DaysInMonth; d++ {
		day := d
		slots = append(slots, &day)
	}
	return slots
}

// Weeks splits Slots into rows of seven, padding the last row with nils.
func (m Month) Weeks() [][]*int {
	slots := m.Slots()
	for len(slots)%7 != 0 {
		slots = append(slots, nil)
	}
	weeks := make([][]*int, 0, len(slots)/7)
	for i := 0; i < len(slots); i += 7 {
		weeks = append(weeks, slots[i:i+7])
	}
	return weeks
}

// BucketByDay groups payments by day of month. Payments due outside m are
// left out, so a day number never mixes payments from different months.
// InMonth keeps the payments due in m, in their original order.
func InMonth(payments []models.Payment, m Month) []models.Payment {
	out := make([]models.Payment, 0, len(payments))
	for _, p := range payments {
		if m.Contains(p.DueDate) {
			out = append(out, p)
		}
	}
	return out
}

func BucketByDay(payments []models.Payment, m Month) map[int][]models.Payment {
	buckets := make(map[int][]models.Payment)
	for _, p := range payments {
		if !m.Contains(p.DueDate) {
			continue
		}
		day := p.DueDate.Day()
		buckets[day] = append(buckets[day], p)
	}
	return buckets
}

type Summary struct {
	Total     int             `json:"total"`
	Paid      int             `json:"paid"`
	Pending   int             `json:"pending"`
	Late      int             `json:"late"`
	TotalRent decimal.Decimal `json:"total_rent"`
}

// Summarize counts payments per status and sums their rents. Unknown statuses
// are counted as pending so the three counts always add up to Total.
func Summarize(payments []models.Payment) Summary {
	s := Summary{TotalRent: decimal.Zero}
	for _, p := range payments {
		s.Total++
		s.TotalRent = s.TotalRent.Add(p.MonthlyRent)
		switch p.Status {
		case models.PaymentPaid:
			s.Paid++
		case models.PaymentLate:
			s.Late++
		default:
			s.Pending++
		}
	}
	return s
}

// Cell is one square of the rendered grid. Padding cells have Day 0.
type Cell struct {
	Day      int
	Payments []models.Payment
	Today    bool
}

// Grid lays the bucketed payments of m out week by week.
func Grid(m Month, buckets map[int][]models.Payment, today time.Time) [][]Cell {
	weeks := m.Weeks()
	grid := make([][]Cell, len(weeks))
	for i, week := range weeks {
		grid[i] = make([]Cell, len(week))
		for j, day := range week {
			if day == nil {
				continue
			}
			grid[i][j] = Cell{
				Day:      *day,
				Payments: buckets[*day],
				Today:    today.Year() == m.Year && today.Month() == m.Month && today.Day() == *day,
			}
		}
	}
	return grid
}

// Cards renders a summary with the shared stat card partial.
func (s Summary) Cards() []views.StatCard {
	return []views.StatCard{
		{Title: "Total", Value: strconv.Itoa(s.Total), Icon: "calendar", Color: "blue"},
		{Title: "Payés", Value: strconv.Itoa(s.Paid), Icon: "check-circle", Color: "green"},
		{Title: "En attente", Value: strconv.Itoa(s.Pending), Icon: "clock", Color: "yellow"},
		{Title: "En retard", Value: strconv.Itoa(s.Late), Icon: "alert-triangle", Color: "red"},
		{Title: "Loyers", Value: views.Money(s.TotalRent), Icon: "euro", Color: "purple"},
	}
}
