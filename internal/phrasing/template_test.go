package phrasing

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/NamanSoni18/Finmate-Backend/internal/dialogue"
)

func TestGroup(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{100000, "1,00,000"},
		{500000, "5,00,000"},
		{1234567, "12,34,567"},
		{10000000, "1,00,00,000"},
	}
	for _, tt := range tests {
		if got := group(tt.n); got != tt.want {
			t.Errorf("group(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestTextCoversEveryIntent(t *testing.T) {
	intents := []dialogue.Intent{
		{Type: dialogue.IntentNeedPhone},
		{Type: dialogue.IntentNeedPhone, NotFound: true},
		{Type: dialogue.IntentNeedAmount, CustomerName: "Rajesh Kumar", PreApprovedLimit: 500000},
		{Type: dialogue.IntentNeedAmount, RangeGiven: true, PreApprovedLimit: 500000},
		{Type: dialogue.IntentNeedTenure, Amount: 400000},
		{Type: dialogue.IntentAmbiguousAmount, Candidates: []int64{300000, 500000}},
		{Type: dialogue.IntentShowPreview, Amount: 400000, TenureMonths: 60, EMI: 8695, TotalInterest: 121700, RatePercent: 10.99},
		{Type: dialogue.IntentNeedSuggestionChoice, Suggested: 500000, Requested: 800000},
		{Type: dialogue.IntentApproved, Amount: 400000, TenureMonths: 60, EMI: 8695, RatePercent: 10.99},
		{Type: dialogue.IntentApproved, AfterDocument: true, Amount: 800000, TenureMonths: 60, EMI: 17390, RatePercent: 10.99},
		{Type: dialogue.IntentPendingDocument, Reason: "please upload your latest salary slip"},
		{Type: dialogue.IntentRejected, Reason: "credit score 650 is below our minimum"},
		{Type: dialogue.IntentEnded},
		{Type: dialogue.IntentReset},
		{Type: dialogue.IntentHelp},
		{Type: dialogue.IntentEscalate},
	}
	for _, in := range intents {
		if got := Text(in); strings.TrimSpace(got) == "" {
			t.Errorf("Text(%s) returned empty", in.Type)
		}
	}
}

func TestTextPreviewContainsNumbers(t *testing.T) {
	got := Text(dialogue.Intent{
		Type: dialogue.IntentShowPreview,
		Amount: 500000, TenureMonths: 60, EMI: 10869,
		TotalInterest: 152140, RatePercent: 10.99,
	})
	assert.Contains(t, got, "5,00,000")
	assert.Contains(t, got, "10,869")
	assert.Contains(t, got, "10.99")
	assert.Contains(t, got, "60 months")
}

func TestTextRangeRepromptMentionsSingleAmount(t *testing.T) {
	got := Text(dialogue.Intent{
		Type: dialogue.IntentNeedAmount, RangeGiven: true, PreApprovedLimit: 500000,
	})
	assert.Contains(t, got, "range")
	assert.Contains(t, got, "5,00,000")
}

type failingProvider struct{}

func (failingProvider) Name() string { return "failing" }
func (failingProvider) Rephrase(context.Context, string, string) (string, error) {
	return "", context.DeadlineExceeded
}

type echoProvider struct{}

func (echoProvider) Name() string { return "echo" }
func (echoProvider) Rephrase(_ context.Context, _, draft string) (string, error) {
	return "~" + draft, nil
}

type blankProvider struct{}

func (blankProvider) Name() string { return "blank" }
func (blankProvider) Rephrase(context.Context, string, string) (string, error) {
	return "   ", nil
}

func TestRenderFallsBackOnProviderFailure(t *testing.T) {
	intent := dialogue.Intent{Type: dialogue.IntentEnded}
	want := Text(intent)

	r := NewRenderer(failingProvider{}, time.Second)
	assert.Equal(t, want, r.Render(context.Background(), intent, "neutral"))

	r = NewRenderer(blankProvider{}, time.Second)
	assert.Equal(t, want, r.Render(context.Background(), intent, "neutral"))
}

func TestRenderUsesProviderOutput(t *testing.T) {
	intent := dialogue.Intent{Type: dialogue.IntentEnded}
	r := NewRenderer(echoProvider{}, time.Second)
	assert.Equal(t, "~"+Text(intent), r.Render(context.Background(), intent, "neutral"))
}

func TestRenderWithoutProvider(t *testing.T) {
	intent := dialogue.Intent{Type: dialogue.IntentHelp}
	r := NewRenderer(nil, time.Second)
	assert.Equal(t, Text(intent), r.Render(context.Background(), intent, "neutral"))
}
