package main

import (
	"github.com/NamanSoni18/Finmate-Backend/internal/adapter"
	"github.com/NamanSoni18/Finmate-Backend/internal/chat"
	"github.com/NamanSoni18/Finmate-Backend/internal/config"
	"github.com/NamanSoni18/Finmate-Backend/internal/customer"
	"github.com/NamanSoni18/Finmate-Backend/internal/dialogue"
	"github.com/NamanSoni18/Finmate-Backend/internal/phrasing"
	"github.com/NamanSoni18/Finmate-Backend/internal/risk"
	"github.com/NamanSoni18/Finmate-Backend/internal/sanction"
	"github.com/NamanSoni18/Finmate-Backend/internal/session"
)

// components holds everything a running FinMate needs, wired from config.
type components struct {
	service *chat.Service
	bureau  *customer.Bureau
}

func buildComponents(cfg *config.Config) (*components, error) {
	directory := customer.NewDirectory(cfg.Customers.FixturePath)

	bureauTimeout, err := config.DurationOrDefault(cfg.Bureau.Timeout, config.DefaultBureauTimeout)
	if err != nil {
		return nil, err
	}
	bureauCacheTTL, err := config.DurationOrDefault(cfg.Bureau.CacheTTL, config.DefaultBureauCacheTTL)
	if err != nil {
		return nil, err
	}
	bureau := customer.NewBureau(cfg.Bureau.BaseURL, bureauTimeout, bureauCacheTTL, directory)

	engine := risk.NewEngine(bureau, directory, cfg.Loan.MinCreditScore, cfg.Loan.MaxEMIPercent)
	machine := dialogue.NewMachine(directory, engine, dialogue.Config{
		AnnualRatePercent:   cfg.Loan.AnnualRatePercent,
		TenureLowMonths:     cfg.Loan.DefaultTenureLow,
		TenureHighMonths:    cfg.Loan.DefaultTenureHigh,
		TenureCutoverAmount: cfg.Loan.TenureCutover,
	})

	provider, err := phrasing.NewProvider(
		cfg.Phrasing.Provider, cfg.Phrasing.APIKey, cfg.Phrasing.BaseURL, cfg.Phrasing.Model)
	if err != nil {
		return nil, err
	}
	phrasingTimeout, err := config.DurationOrDefault(cfg.Phrasing.Timeout, config.DefaultPhrasingTimeout)
	if err != nil {
		return nil, err
	}
	renderer := phrasing.NewRenderer(provider, phrasingTimeout)

	sessionTTL, err := config.DurationOrDefault(cfg.Session.TTL, config.DefaultSessionTTL)
	if err != nil {
		return nil, err
	}

	var escalations chat.Escalations = adapter.NullNotifier{}
	if cfg.Adapters.Slack.Enabled {
		escalations = adapter.NewSlackNotifier(
			cfg.Adapters.Slack.BotToken, cfg.Adapters.Slack.EscalationChannel)
	}

	service := chat.NewService(
		session.NewStore(sessionTTL),
		machine,
		renderer,
		customer.NewLedger(cfg.Audit.LedgerPath),
		sanction.NewGenerator(cfg.Sanction.OutputDir),
		escalations,
		cfg.Sentiment.EscalationThreshold,
	)

	return &components{service: service, bureau: bureau}, nil
}
