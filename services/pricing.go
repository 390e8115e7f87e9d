package services

import (
	"fmt"
	"math"
	"time"

	"rentalsync/constants"
	apperrors "rentalsync/errors"
	"rentalsync/models"
)

// dayRate là bảng giá hiệu lực của một ngày sau khi phân giải
// custom rate > seasonal rate > pricing settings.
type dayRate struct {
	Nightly float64
	Weekend float64
	Weekly  float64
	Monthly float64
	Name    string
}

// resolveDayRate tìm bảng giá hiệu lực cho ngày day.
// Trả về nil khi không rate nào phủ và property không có pricing settings.
func resolveDayRate(p *models.Property, day time.Time) *dayRate {
	var seasonal *models.Rate
	for i := range p.Rates {
		r := &p.Rates[i]
		if !r.Covers(day) {
			continue
		}
		if !r.Seasonal {
			return &dayRate{Nightly: r.Nightly, Weekend: r.Weekend, Weekly: r.Weekly, Monthly: r.Monthly, Name: "Custom rate"}
		}
		if seasonal == nil {
			seasonal = r
		}
	}
	if seasonal != nil {
		return &dayRate{Nightly: seasonal.Nightly, Weekend: seasonal.Weekend, Weekly: seasonal.Weekly, Monthly: seasonal.Monthly, Name: "Seasonal rate"}
	}
	if ps := p.PricingSettings; ps != nil && ps.Nightly > 0 {
		return &dayRate{Nightly: ps.Nightly, Weekend: ps.Weekend, Weekly: ps.Weekly, Monthly: ps.Monthly, Name: "Nightly rate"}
	}
	return nil
}

// isWeekendNight xét đêm có phải đêm cuối tuần không (đêm thứ sáu, thứ bảy)
func isWeekendNight(day time.Time) bool {
	wd := day.Weekday()
	return wd == time.Friday || wd == time.Saturday
}

// nightlyCost là giá của một đêm đơn lẻ, dùng weekend price nếu có
func (r *dayRate) nightlyCost(day time.Time) float64 {
	if isWeekendNight(day) && r.Weekend > 0 {
		return r.Weekend
	}
	return r.Nightly
}

// QuoteStay tính các dòng giá cho khoảng lưu trú [start, end).
// Partition tham lam: tại mỗi vị trí chọn block (tháng 30 đêm, tuần 7 đêm,
// hay đêm lẻ) có chi phí trung bình mỗi đêm thấp nhất. Ngày không có giá
// nào phủ là lỗi UNCOVERED_DATES.
func QuoteStay(p *models.Property, start, end time.Time) ([]models.ReservationRate, error) {
	if !end.After(start) {
		return nil, apperrors.NewAppError(apperrors.ErrCodeValidation, "khoảng lưu trú không hợp lệ", nil)
	}

	totalNights := int(end.Sub(start).Hours() / 24)
	for day := start; day.Before(end); day = day.AddDate(0, 0, 1) {
		if resolveDayRate(p, day) == nil {
			return nil, apperrors.NewAppError(apperrors.ErrCodeUncoveredDates,
				fmt.Sprintf("không có giá cho ngày %s", day.Format("2006-01-02")), nil)
		}
	}

	var lines []models.ReservationRate
	day := start
	remaining := totalNights
	for remaining > 0 {
		rate := resolveDayRate(p, day)

		nightlyHere := rate.nightlyCost(day)
		bestLen, bestCost, bestName := 1, nightlyHere, rate.Name
		if rate.Weekly > 0 && remaining >= 7 && rate.Weekly/7 < bestCost {
			bestLen, bestCost, bestName = 7, rate.Weekly/7, "Weekly rate"
		}
		if rate.Monthly > 0 && remaining >= 30 && rate.Monthly/30 < bestCost {
			bestLen, bestCost, bestName = 30, rate.Monthly/30, "Monthly rate"
		}

		var amount float64
		switch bestLen {
		case 30:
			amount = rate.Monthly
		case 7:
			amount = rate.Weekly
		default:
			amount = nightlyHere
		}

		nightly := roundMoney(bestCost)
		// gộp các đêm lẻ cùng giá cùng tên thành một dòng
		if bestLen == 1 && len(lines) > 0 {
			last := &lines[len(lines)-1]
			if last.Name == bestName && last.Nightly == nightly {
				last.Nights++
				last.Amount = roundMoney(last.Amount + amount)
				day = day.AddDate(0, 0, 1)
				remaining--
				continue
			}
		}

		lines = append(lines, models.ReservationRate{
			Name:    bestName,
			Nights:  bestLen,
			Nightly: nightly,
			Amount:  roundMoney(amount),
		})
		day = day.AddDate(0, 0, bestLen)
		remaining -= bestLen
	}
	return lines, nil
}

// FeeAmount tính số tiền của một fee cấu hình cho một lưu trú.
// base là tổng các dòng giá; plainFees/taxFees là tổng các fee flat đã tính,
// tách theo taxable, để các fee phần trăm không gối lên nhau.
func FeeAmount(fee *models.AdditionalFee, base float64, nights, guests int, plainFees, taxFees float64) float64 {
	switch fee.CalculationMethod {
	case constants.CalcPerStay:
		return roundMoney(fee.Value)
	case constants.CalcDaily:
		return roundMoney(fee.Value * float64(nights))
	case constants.CalcPerPersonPerDay:
		return roundMoney(fee.Value * float64(nights) * float64(guests))
	case constants.CalcPerPersonPerStay:
		return roundMoney(fee.Value * float64(guests))
	case constants.CalcPerStayPercent:
		return roundMoney(fee.Value / 100 * (base + plainFees + taxFees))
	case constants.CalcPerStayOnlyRatesPercent:
		return roundMoney(fee.Value / 100 * base)
	case constants.CalcPerStayNoTaxesPercent:
		return roundMoney(fee.Value / 100 * (base + plainFees))
	}
	return roundMoney(fee.Value)
}

// DiscountAmount tính số tiền giảm giá trên tổng các dòng giá
func DiscountAmount(d *models.Discount, base float64, nights, guests int) float64 {
	fee := models.AdditionalFee{Value: d.Value, CalculationMethod: d.CalculationMethod}
	return FeeAmount(&fee, base, nights, guests, 0, 0)
}

// ReservationTotal tính tổng phải trả: base - giảm giá + phí - hoàn,
// chặn dưới ở 0 và làm tròn 2 chữ số.
func ReservationTotal(r *models.Reservation) float64 {
	total := 0.0
	for _, line := range r.Rates {
		total += line.Amount
	}
	for _, d := range r.Discounts {
		total -= d.Amount
	}
	for _, f := range r.Fees {
		total += f.Amount
	}
	for _, ref := range r.Refunds {
		total -= ref.Amount
	}
	if total < 0 {
		total = 0
	}
	return roundMoney(total)
}

// roundMoney làm tròn tiền về 2 chữ số thập phân
func roundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}
