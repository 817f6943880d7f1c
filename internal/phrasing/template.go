package phrasing

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/NamanSoni18/Finmate-Backend/internal/dialogue"
)

const helpText = "I can help you apply for a personal loan. Share your registered mobile " +
	"number, tell me how much you need and for how long, and I'll show you the EMI " +
	"and take it through approval. Say 'restart' at any time to begin again."

// Text is the deterministic rendering of an intent. Every intent type
// has a template; unknown types get a generic re-prompt.
func Text(intent dialogue.Intent) string {
	switch intent.Type {
	case dialogue.IntentNeedPhone:
		if intent.NotFound {
			return "I couldn't find an account for that number. Please double-check and share your registered 10-digit mobile number."
		}
		return "Welcome to FinMate! Please share your registered 10-digit mobile number to get started."

	case dialogue.IntentNeedAmount:
		if intent.RangeGiven {
			return fmt.Sprintf(
				"I need one specific amount rather than a range. You are pre-approved for up to ₹%s — how much exactly?",
				group(intent.PreApprovedLimit))
		}
		return fmt.Sprintf(
			"Thanks, %s! You are pre-approved for up to ₹%s. How much would you like to borrow?",
			intent.CustomerName, group(intent.PreApprovedLimit))

	case dialogue.IntentNeedTenure:
		return fmt.Sprintf(
			"Got it, ₹%s. Over how many months or years would you like to repay?",
			group(intent.Amount))

	case dialogue.IntentAmbiguousAmount:
		return fmt.Sprintf(
			"I noticed more than one amount: %s. Which one should I go with?",
			amountList(intent.Candidates))

	case dialogue.IntentShowPreview:
		return fmt.Sprintf(
			"Here's your plan: ₹%s over %d months at %s%% p.a. — monthly EMI ₹%s, total interest ₹%s. Shall I proceed?",
			group(intent.Amount), intent.TenureMonths, rate(intent.RatePercent),
			group(intent.EMI), group(intent.TotalInterest))

	case dialogue.IntentNeedSuggestionChoice:
		return fmt.Sprintf(
			"₹%s is above your pre-approved limit. I can approve ₹%s instantly — would you like that, or stick with ₹%s (extra verification needed)?",
			group(intent.Requested), group(intent.Suggested), group(intent.Requested))

	case dialogue.IntentApproved:
		if intent.AfterDocument {
			return fmt.Sprintf(
				"Your salary slip checks out! Your loan of ₹%s for %d months is approved — EMI ₹%s at %s%% p.a. The sanction letter is on its way.",
				group(intent.Amount), intent.TenureMonths, group(intent.EMI), rate(intent.RatePercent))
		}
		return fmt.Sprintf(
			"Congratulations! Your loan of ₹%s for %d months is approved — EMI ₹%s at %s%% p.a. The sanction letter is on its way.",
			group(intent.Amount), intent.TenureMonths, group(intent.EMI), rate(intent.RatePercent))

	case dialogue.IntentPendingDocument:
		return capitalize(intent.Reason)

	case dialogue.IntentRejected:
		return "I'm sorry, we can't proceed this time: " + intent.Reason + ". Say 'restart' if you'd like to try a different amount."

	case dialogue.IntentEnded:
		return "This conversation has ended. Say 'restart' to begin a new application."

	case dialogue.IntentReset:
		return "Let's start fresh! Please share your registered 10-digit mobile number."

	case dialogue.IntentHelp:
		return helpText

	case dialogue.IntentEscalate:
		return "I understand this is important. I'm connecting you with a specialist who will take over right away."

	default:
		return "Sorry, I didn't catch that. Could you rephrase?"
	}
}

// group renders 1234567 as "12,34,567" in the Indian digit grouping.
func group(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	if len(s) > 3 {
		head, tail := s[:len(s)-3], s[len(s)-3:]
		var parts []string
		for len(head) > 2 {
			parts = append([]string{head[len(head)-2:]}, parts...)
			head = head[:len(head)-2]
		}
		if head != "" {
			parts = append([]string{head}, parts...)
		}
		s = strings.Join(append(parts, tail), ",")
	}
	if neg {
		s = "-" + s
	}
	return s
}

func amountList(amounts []int64) string {
	parts := make([]string, len(amounts))
	for i, a := range amounts {
		parts[i] = "₹" + group(a)
	}
	return strings.Join(parts, " or ")
}

func rate(r float64) string {
	return strconv.FormatFloat(r, 'f', -1, 64)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
