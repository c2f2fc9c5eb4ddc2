package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMailLink(t *testing.T) {
	setup()
	defer teardown()

	settingService := SettingService{}
	mailService := MailService{}

	link := mailService.link("reset", "t0k3n")
	assert.Equal(t, "http://localhost:8080/reset/t0k3n", link)

	assert.NoError(t, settingService.setString("siteURL", "https://house.example.org/"))
	assert.NoError(t, settingService.setString("webBasePath", "/panel-root"))

	link = mailService.link("create", "t0k3n")
	assert.Equal(t, "https://house.example.org/panel-root/create/t0k3n", link)
}
