package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSettingDefaultsAndOverrides(t *testing.T) {
	setup()
	defer teardown()

	service := SettingService{}

	port, err := service.GetPort()
	assert.NoError(t, err)
	assert.Equal(t, 8080, port)

	assert.NoError(t, service.SetPort(9090))
	port, err = service.GetPort()
	assert.NoError(t, err)
	assert.Equal(t, 9090, port)

	year, err := service.GetHassleYear()
	assert.NoError(t, err)
	assert.Equal(t, 0, year)
	assert.NoError(t, service.SetHassleYear(2026))
	year, err = service.GetHassleYear()
	assert.NoError(t, err)
	assert.Equal(t, 2026, year)

	assert.NoError(t, service.ResetSettings())
	port, err = service.GetPort()
	assert.NoError(t, err)
	assert.Equal(t, 8080, port)
}

func TestGetBasePathNormalized(t *testing.T) {
	setup()
	defer teardown()

	service := SettingService{}

	basePath, err := service.GetBasePath()
	assert.NoError(t, err)
	assert.Equal(t, "/", basePath)

	assert.NoError(t, service.setString("webBasePath", "/house"))
	basePath, err = service.GetBasePath()
	assert.NoError(t, err)
	assert.Equal(t, "/house/", basePath)
}

func TestGetSecretStable(t *testing.T) {
	setup()
	defer teardown()

	service := SettingService{}

	first, err := service.GetSecret()
	assert.NoError(t, err)
	assert.Len(t, first, 32)

	second, err := service.GetSecret()
	assert.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestGetAllSettingRoundTrip(t *testing.T) {
	setup()
	defer teardown()

	service := SettingService{}

	all, err := service.GetAllSetting()
	assert.NoError(t, err)
	assert.Equal(t, 8080, all.WebPort)
	assert.Equal(t, "America/New_York", all.TimeLocation)

	all.WebPort = 9191
	all.SiteURL = "https://house.example.org"
	assert.NoError(t, service.UpdateAllSetting(all))

	reloaded, err := service.GetAllSetting()
	assert.NoError(t, err)
	assert.Equal(t, 9191, reloaded.WebPort)
	assert.Equal(t, "https://house.example.org", reloaded.SiteURL)
}
