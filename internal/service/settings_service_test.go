package service_test

import (
	"studyMate/internal/models/settings"
	"studyMate/internal/service"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsService_Defaults(t *testing.T) {
	svc := service.NewSettingsService(testScope, settings.Profile{Name: "Student", Email: "demo@mate-x.ai"})
	st := svc.Get()

	assert.Equal(t, settings.ThemeSystem, st.Theme)
	assert.Equal(t, "Student", st.Profile.Name)
	assert.Equal(t, "demo@mate-x.ai", st.Profile.Email)
	assert.True(t, st.NotificationsEnabled)
	assert.True(t, st.SoundEnabled)
}

func TestSettingsService_UpdateProfileMergesPartially(t *testing.T) {
	svc := service.NewSettingsService(testScope, settings.Profile{Name: "Student", Email: "demo@mate-x.ai"})
	name := "Ada"

	st := svc.UpdateProfile(settings.ProfilePatch{Name: &name})
	assert.Equal(t, "Ada", st.Profile.Name)
	assert.Equal(t, "demo@mate-x.ai", st.Profile.Email)
}

func TestSettingsService_Toggles(t *testing.T) {
	svc := service.NewSettingsService(testScope, settings.Profile{})

	var events int
	svc.Subscribe(func(service.SettingsEvent) { events++ })
	flush := func() { require.NoError(t, svc.Events().Flush()) }

	assert.False(t, svc.ToggleNotifications().NotificationsEnabled)
	flush()
	assert.False(t, svc.ToggleSound().SoundEnabled)
	flush()
	assert.True(t, svc.ToggleSound().SoundEnabled)
	flush()
	assert.Equal(t, settings.ThemeDark, svc.SetTheme(settings.ThemeDark).Theme)
	flush()
	assert.Equal(t, 4, events)
	assert.Equal(t, settings.ThemeDark, svc.Events().Latest().Settings.Theme)
}
