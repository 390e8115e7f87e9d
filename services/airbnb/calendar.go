package airbnb

import (
	"sort"
	"time"

	"rentalsync/dto"
	"rentalsync/models"
)

// calendarHorizonDays là cửa sổ export lịch về phía trước
const calendarHorizonDays = 730

// dayRange là một dải ngày inclusive [From, To] đã gắn nguồn
type dayRange struct {
	From, To time.Time
	Note     string
}

// BuildCalendarOperations chiếu reservations, blockings và iCal events của
// một property lên danh sách calendar operation. Dòng đầu mở available cho
// cả cửa sổ, các dòng sau đóng unavailable cho từng dải bận. Ngày cuối của
// khoảng nửa mở không bị chặn nên dải export kết thúc ở end - 1 ngày.
func BuildCalendarOperations(now time.Time, reservations []models.Reservation,
	blockings []models.Blocking, events []models.ExternalCalendarEvent) []dto.AirbnbCalendarOperation {

	today := truncateDay(now)
	horizon := today.AddDate(0, 0, calendarHorizonDays)

	var ranges []dayRange
	for i := range reservations {
		r := &reservations[i]
		if !r.BlocksCalendar(now) {
			continue
		}
		ranges = appendClamped(ranges, r.StartDate, r.EndDate, "reservations", today, horizon)
	}
	for i := range blockings {
		b := &blockings[i]
		ranges = appendClamped(ranges, b.Lower, b.Upper, "blockings", today, horizon)
	}
	for i := range events {
		e := &events[i]
		ranges = appendClamped(ranges, e.Start, e.End, "iCal blockings", today, horizon)
	}

	merged := mergeRanges(ranges)

	ops := make([]dto.AirbnbCalendarOperation, 0, len(merged)+1)
	ops = append(ops, dto.AirbnbCalendarOperation{
		Dates:        formatRange(today, horizon),
		Availability: "available",
	})
	for _, r := range merged {
		ops = append(ops, dto.AirbnbCalendarOperation{
			Dates:        formatRange(r.From, r.To),
			Availability: "unavailable",
			Notes:        r.Note,
		})
	}
	return ops
}

// appendClamped đổi khoảng nửa mở [from, to) thành dải inclusive và clamp
// vào cửa sổ export; dải rỗng sau clamp bị bỏ.
func appendClamped(ranges []dayRange, from, to time.Time, note string, today, horizon time.Time) []dayRange {
	first := truncateDay(from)
	last := truncateDay(to).AddDate(0, 0, -1)
	if first.Before(today) {
		first = today
	}
	if last.After(horizon) {
		last = horizon
	}
	if last.Before(first) {
		return ranges
	}
	return append(ranges, dayRange{From: first, To: last, Note: note})
}

// mergeRanges gộp các dải cùng nguồn chồng lấn hoặc kề nhau
func mergeRanges(ranges []dayRange) []dayRange {
	sort.Slice(ranges, func(i, j int) bool {
		if !ranges[i].From.Equal(ranges[j].From) {
			return ranges[i].From.Before(ranges[j].From)
		}
		return ranges[i].Note < ranges[j].Note
	})

	var out []dayRange
	for _, r := range ranges {
		if len(out) > 0 {
			prev := &out[len(out)-1]
			if prev.Note == r.Note && !r.From.After(prev.To.AddDate(0, 0, 1)) {
				if r.To.After(prev.To) {
					prev.To = r.To
				}
				continue
			}
		}
		out = append(out, r)
	}
	return out
}

// formatRange in một ngày đơn hoặc "from:to"
func formatRange(from, to time.Time) string {
	if from.Equal(to) {
		return from.Format(dateLayout)
	}
	return from.Format(dateLayout) + ":" + to.Format(dateLayout)
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
