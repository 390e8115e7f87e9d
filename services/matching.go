package services

import (
	"strings"

	"rentalsync/dto"
	"rentalsync/models"

	"github.com/fiam/gounidecode/unidecode"
	"github.com/schollz/closestmatch"
	"github.com/texttheater/golang-levenshtein/levenshtein"
)

// matchThreshold là độ tương đồng tối thiểu để gợi ý một property
const matchThreshold = 0.55

// normalizeName chuẩn hóa tên để so khớp: bỏ dấu, thường hóa, gọn khoảng trắng
func normalizeName(input string) string {
	input = strings.TrimSpace(unidecode.Unidecode(input))
	input = strings.ToLower(input)
	return strings.Join(strings.Fields(input), " ")
}

// nameSimilarity tính độ tương đồng hai tên theo khoảng cách levenshtein
func nameSimilarity(a, b string) float64 {
	distance := levenshtein.DistanceForStrings([]rune(a), []rune(b), levenshtein.DefaultOptions)
	maxLen := float64(len(a))
	if float64(len(b)) > maxLen {
		maxLen = float64(len(b))
	}
	if maxLen == 0 {
		return 1.0
	}
	return 1.0 - float64(distance)/maxLen
}

// SuggestPropertyMatches gợi ý property nội bộ cho từng listing lấy về từ
// channel, để màn hình link không bắt người dùng dò tay. Tên được chuẩn hóa
// rồi khớp hai tầng: closestmatch chọn ứng viên, levenshtein chấm điểm;
// dưới ngưỡng thì không gợi ý gì.
func SuggestPropertyMatches(remote []dto.RemoteListingSummary, properties []models.Property) []dto.RemoteListingSummary {
	if len(properties) == 0 {
		return remote
	}

	byName := make(map[string]*models.Property, len(properties))
	names := make([]string, 0, len(properties))
	for i := range properties {
		n := normalizeName(properties[i].Name)
		if n == "" {
			continue
		}
		if _, dup := byName[n]; !dup {
			names = append(names, n)
		}
		byName[n] = &properties[i]
	}
	if len(names) == 0 {
		return remote
	}

	matcher := closestmatch.New(names, []int{2, 3})
	for i := range remote {
		query := normalizeName(remote[i].Name)
		if query == "" {
			continue
		}
		candidate := matcher.Closest(query)
		if candidate == "" {
			continue
		}
		if nameSimilarity(query, candidate) < matchThreshold {
			continue
		}
		p := byName[candidate]
		remote[i].SuggestedPropertyID = &p.ID
		remote[i].SuggestedName = p.Name
	}
	return remote
}
