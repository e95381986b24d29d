package controller

import (
	"github.com/ai-scaleup/pearl-whitelabel/internal/lexicon"
	"github.com/ai-scaleup/pearl-whitelabel/internal/pearl"
)

// DetailView is the side-panel model: the loaded detail with every
// missing optional field backed by the selected call summary.
type DetailView struct {
	Name               string
	Summary            string
	Tags               []string
	Transcript         []pearl.TranscriptMessage
	CollectedInfo      []pearl.CollectedInfo
	Recording          string
	Duration           int
	StartTime          string
	Status             lexicon.CallStatus
	ConversationStatus lexicon.ConversationStatus
	OverallSentiment   lexicon.Sentiment
}

// DetailView merges the loaded detail over the selected summary.
// Returns false when no call is selected. A selected call whose detail
// has not loaded yet renders from the summary alone.
func (s *Snapshot) DetailView() (DetailView, bool) {
	if s.SelectedCall == nil {
		return DetailView{}, false
	}

	view := DetailView{
		Tags:               s.SelectedCall.Tags,
		Duration:           s.SelectedCall.Duration,
		StartTime:          s.SelectedCall.StartTime,
		Status:             s.SelectedCall.Status,
		ConversationStatus: s.SelectedCall.ConversationStatus,
		OverallSentiment:   lexicon.SentimentNeutral,
	}

	d := s.Detail
	if d == nil {
		return view, true
	}

	view.Name = d.Name
	view.Summary = d.Summary
	view.Transcript = d.Transcript
	view.CollectedInfo = d.CollectedInfo
	view.Recording = d.Recording
	if len(d.Tags) > 0 {
		view.Tags = d.Tags
	}
	if d.Duration != 0 {
		view.Duration = d.Duration
	}
	if d.StartTime != "" {
		view.StartTime = d.StartTime
	}
	if d.Status != 0 {
		view.Status = d.Status
	}
	if d.ConversationStatus != 0 {
		view.ConversationStatus = d.ConversationStatus
	}
	if d.OverallSentiment != 0 {
		view.OverallSentiment = d.OverallSentiment
	}
	return view, true
}
