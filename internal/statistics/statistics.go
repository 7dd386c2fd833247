// Package statistics summarizes learning progress and the review schedule.
package statistics

import (
	"sort"

	"github.com/at-ishikawa/dailyexpression/internal/date"
	"github.com/at-ishikawa/dailyexpression/internal/expression"
	"github.com/at-ishikawa/dailyexpression/internal/progress"
	"github.com/at-ishikawa/dailyexpression/internal/srs"
)

// Upper interval bounds in days of the Learning and Young buckets
const (
	learningMaxInterval = 5
	youngMaxInterval    = 20
)

type Bucket string

const (
	BucketNew      Bucket = "New"
	BucketLearning Bucket = "Learning"
	BucketYoung    Bucket = "Young"
	BucketMature   Bucket = "Mature"
)

var Buckets = []Bucket{BucketNew, BucketLearning, BucketYoung, BucketMature}

// BucketOf classifies a learned item. A nil record counts as New.
func BucketOf(record *srs.Record) Bucket {
	switch {
	case record == nil || record.Interval == 0:
		return BucketNew
	case record.Interval <= learningMaxInterval:
		return BucketLearning
	case record.Interval <= youngMaxInterval:
		return BucketYoung
	default:
		return BucketMature
	}
}

type BucketCount struct {
	Bucket Bucket `json:"bucket"`
	Count  int    `json:"count"`
}

type CategoryProgress struct {
	Category expression.Category `json:"category"`
	Learned  int                 `json:"learned"`
	Total    int                 `json:"total"`
}

// UpcomingReview is a scheduled review of a learned expression
type UpcomingReview struct {
	ExpressionID string    `json:"expressionId"`
	Expression   string    `json:"expression"`
	Date         date.Date `json:"date"`
	DaysUntil    int       `json:"daysUntil"`
}

type Summary struct {
	Today         date.Date          `json:"today"`
	TotalLearned  int                `json:"totalLearned"`
	TotalReviews  int                `json:"totalReviews"`
	DueCount      int                `json:"dueCount"`
	Buckets       []BucketCount      `json:"buckets"`
	Categories    []CategoryProgress `json:"categories"`
	FirstLearned  *date.Date         `json:"firstLearned,omitempty"`
	LatestLearned *date.Date         `json:"latestLearned,omitempty"`
	// Upcoming is sorted by date and includes overdue reviews
	Upcoming []UpcomingReview `json:"upcoming"`
}

// Calculate counts only learned expressions. Records of items that are not
// in learned are ignored.
func Calculate(
	catalog *expression.Catalog,
	learned []progress.Progress,
	records map[string]srs.Record,
	today date.Date,
) Summary {
	summary := Summary{
		Today:    today,
		Upcoming: []UpcomingReview{},
	}

	bucketCounts := make(map[Bucket]int, len(Buckets))
	learnedByCategory := make(map[expression.Category]int)
	for _, p := range learned {
		if !p.IsLearned {
			continue
		}
		summary.TotalLearned++
		summary.TotalReviews += p.ReviewCount
		trackLearnedDate(&summary, p.LearnedDate)

		item, known := catalog.Find(p.ExpressionID)
		if known {
			learnedByCategory[item.Category]++
		}

		record, ok := records[p.ExpressionID]
		if !ok {
			bucketCounts[BucketNew]++
			continue
		}
		bucketCounts[BucketOf(&record)]++
		if srs.IsDue(record, today) {
			summary.DueCount++
		}
		summary.Upcoming = append(summary.Upcoming, UpcomingReview{
			ExpressionID: p.ExpressionID,
			Expression:   item.Expression,
			Date:         record.NextReviewDate,
			DaysUntil:    srs.DaysUntilReview(record, today),
		})
	}

	for _, bucket := range Buckets {
		summary.Buckets = append(summary.Buckets, BucketCount{Bucket: bucket, Count: bucketCounts[bucket]})
	}

	totalByCategory := make(map[expression.Category]int)
	for _, item := range catalog.Items() {
		totalByCategory[item.Category]++
	}
	for _, category := range expression.Categories {
		summary.Categories = append(summary.Categories, CategoryProgress{
			Category: category,
			Learned:  learnedByCategory[category],
			Total:    totalByCategory[category],
		})
	}

	sort.SliceStable(summary.Upcoming, func(i, j int) bool {
		a, b := summary.Upcoming[i], summary.Upcoming[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		return a.ExpressionID < b.ExpressionID
	})
	return summary
}

func trackLearnedDate(summary *Summary, learnedDate *date.Date) {
	if learnedDate == nil {
		return
	}
	d := *learnedDate
	if summary.FirstLearned == nil || d.Before(*summary.FirstLearned) {
		summary.FirstLearned = &d
	}
	if summary.LatestLearned == nil || d.After(*summary.LatestLearned) {
		latest := d
		summary.LatestLearned = &latest
	}
}

// Count returns the number of items in bucket
func (s Summary) Count(bucket Bucket) int {
	for _, b := range s.Buckets {
		if b.Bucket == bucket {
			return b.Count
		}
	}
	return 0
}
