package service

import (
	"studyMate/internal/logger"
	"studyMate/internal/models/settings"
	"studyMate/internal/observe"
	"sync"

	"github.com/pumped-fn/flux"
	"go.uber.org/zap"
)

type SettingsEvent struct {
	Settings settings.Settings
}

type SettingsService struct {
	events *observe.Hub[SettingsEvent]

	mtx      sync.RWMutex
	settings settings.Settings
}

func NewSettingsService(scope flux.Scope, profile settings.Profile) *SettingsService {
	initial := settings.Default(profile)
	return &SettingsService{
		events:   observe.MustHub(scope, "settings", SettingsEvent{Settings: initial}),
		settings: initial,
	}
}

func (s *SettingsService) Subscribe(fn func(SettingsEvent)) func() {
	return s.events.Subscribe(fn)
}

func (s *SettingsService) Events() *observe.Hub[SettingsEvent] {
	return s.events
}

func (s *SettingsService) Get() settings.Settings {
	s.mtx.RLock()
	defer s.mtx.RUnlock()
	return s.settings
}

func (s *SettingsService) update(fn func(*settings.Settings)) settings.Settings {
	s.mtx.Lock()
	fn(&s.settings)
	snapshot := s.settings
	s.mtx.Unlock()

	s.events.Publish(SettingsEvent{Settings: snapshot})
	return snapshot
}

func (s *SettingsService) SetTheme(theme settings.Theme) settings.Settings {
	logger.Debug("Service: Смена темы", zap.String("theme", string(theme)))
	return s.update(func(st *settings.Settings) {
		st.Theme = theme
	})
}

// UpdateProfile сливает только заданные поля
func (s *SettingsService) UpdateProfile(patch settings.ProfilePatch) settings.Settings {
	return s.update(func(st *settings.Settings) {
		if patch.Name != nil {
			st.Profile.Name = *patch.Name
		}
		if patch.Email != nil {
			st.Profile.Email = *patch.Email
		}
		if patch.Avatar != nil {
			st.Profile.Avatar = *patch.Avatar
		}
	})
}

func (s *SettingsService) ToggleNotifications() settings.Settings {
	return s.update(func(st *settings.Settings) {
		st.NotificationsEnabled = !st.NotificationsEnabled
	})
}

func (s *SettingsService) ToggleSound() settings.Settings {
	return s.update(func(st *settings.Settings) {
		st.SoundEnabled = !st.SoundEnabled
	})
}
