package core

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// SettingsID keys the single settings row.
const SettingsID = "default"

const (
	DefaultAIProvider = ProviderAnthropic
	DefaultAIModel    = "claude-sonnet-4-6"
)

type Settings struct {
	ID                   string     `json:"id"`
	Currency             string     `json:"currency"`
	NotificationsEnabled bool       `json:"notifications_enabled"`
	AIProvider           AIProvider `json:"ai_provider"`
	AIModel              string     `json:"ai_model"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

// DefaultSettings is the row inserted on first access.
func DefaultSettings(now time.Time) Settings {
	now = now.UTC()
	return Settings{
		ID:                   SettingsID,
		Currency:             DefaultCurrency,
		NotificationsEnabled: true,
		AIProvider:           DefaultAIProvider,
		AIModel:              DefaultAIModel,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
}

type SettingsUpdate struct {
	Currency             *string     `json:"currency"`
	NotificationsEnabled *bool       `json:"notifications_enabled"`
	AIProvider           *AIProvider `json:"ai_provider"`
	AIModel              *string     `json:"ai_model"`
}

func (p *SettingsUpdate) Normalize() {
	if p.Currency != nil {
		*p.Currency = normalizeCurrency(*p.Currency)
	}
	trimPtr(p.AIModel)
}

func (p SettingsUpdate) Validate() error {
	if p.Currency != nil {
		if err := validateCurrency("currency", *p.Currency); err != nil {
			return err
		}
	}
	if p.AIProvider != nil && !p.AIProvider.Valid() {
		return NewValidationError("ai_provider", "must be one of anthropic, openai, ollama")
	}
	if p.AIModel != nil {
		if strings.TrimSpace(*p.AIModel) == "" {
			return NewValidationError("ai_model", "must not be empty")
		}
		if utf8.RuneCountInString(*p.AIModel) > MaxModelLength {
			return NewValidationError("ai_model", fmt.Sprintf("must be at most %d characters", MaxModelLength))
		}
	}
	return nil
}

func (p SettingsUpdate) Apply(s *Settings) {
	if p.Currency != nil {
		s.Currency = *p.Currency
	}
	if p.NotificationsEnabled != nil {
		s.NotificationsEnabled = *p.NotificationsEnabled
	}
	if p.AIProvider != nil {
		s.AIProvider = *p.AIProvider
	}
	if p.AIModel != nil {
		s.AIModel = *p.AIModel
	}
}
