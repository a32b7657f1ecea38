package catalog

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	dombatch "github.com/peroute/hackwest-project/internal/domain/batch"
	"github.com/peroute/hackwest-project/internal/domain/resource"
	"github.com/peroute/hackwest-project/internal/logger"
	"github.com/peroute/hackwest-project/internal/metrics"
)

const (
	maxTitleWordTags = 5
	minTagWordLen    = 4
	errTitleRunes    = 50
)

// ImportReport summarizes a bulk import.
type ImportReport struct {
	TotalProcessed  int
	TotalCategories int
	Successful      int
	Failed          int
	Details         []CategoryReport
}

// CategoryReport is the outcome for one category.
type CategoryReport struct {
	Category   string
	Processed  int
	Successful int
	Failed     int
	Errors     []string
}

// Import stores every item of a category-keyed set. Items missing a title or url are rejected
// with a message; everything else continues.
func (s *Service) Import(ctx context.Context, set resource.ImportSet) ImportReport {
	var rep ImportReport
	log := logger.FromContext(ctx, s.logger)

	for _, name := range set.Categories() {
		category := strings.TrimSpace(name)
		cr := CategoryReport{Category: category, Errors: []string{}}
		rep.TotalCategories++

		for _, item := range set[name] {
			rep.TotalProcessed++
			cr.Processed++

			title := strings.TrimSpace(item.Title)
			url := strings.TrimSpace(item.URL)
			if title == "" || url == "" {
				cr.Failed++
				rep.Failed++
				cr.Errors = append(cr.Errors, fmt.Sprintf("Missing required fields: %s...", prefixRunes(title, errTitleRunes)))
				metrics.BatchItemsTotal.WithLabelValues(string(dombatch.StatusError)).Inc()
				continue
			}

			_, err := s.Create(ctx, resource.Params{
				Title:       title,
				Description: strings.TrimSpace(item.Text),
				URL:         url,
				Category:    category,
				Tags:        importTags(category, title),
				Public:      true,
			})
			if err != nil {
				log.Warn("Import item failed", zap.String("category", category), zap.String("title", title), zap.Error(err))
				cr.Failed++
				rep.Failed++
				cr.Errors = append(cr.Errors, fmt.Sprintf("Failed to store: %s...", prefixRunes(title, errTitleRunes)))
				metrics.BatchItemsTotal.WithLabelValues(string(dombatch.StatusError)).Inc()
				continue
			}
			cr.Successful++
			rep.Successful++
			metrics.BatchItemsTotal.WithLabelValues(string(dombatch.StatusOK)).Inc()
		}

		rep.Details = append(rep.Details, cr)
	}

	log.Info("Import finished",
		zap.Int("categories", rep.TotalCategories),
		zap.Int("processed", rep.TotalProcessed),
		zap.Int("successful", rep.Successful),
		zap.Int("failed", rep.Failed),
	)
	return rep
}

// importTags is the lowercase category followed by up to five long title words.
func importTags(category, title string) []string {
	tags := []string{strings.ToLower(category)}
	n := 0
	for _, w := range strings.Fields(title) {
		if n == maxTitleWordTags {
			break
		}
		if utf8.RuneCountInString(w) >= minTagWordLen {
			tags = append(tags, strings.ToLower(w))
			n++
		}
	}
	return tags
}

func prefixRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
