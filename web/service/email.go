package service

import (
	"fmt"
	"strings"

	"house-panel/logger"

	"gopkg.in/gomail.v2"
)

// MailService delivers outbound notifications. Every send is fire-and-forget:
// failures are logged for the operator and never propagate into the flows
// that triggered them. Tokens only ever appear inside the links themselves,
// not in logs.
type MailService struct {
	settingService SettingService
}

func (m *MailService) send(to string, subject string, body string) {
	host, err := m.settingService.GetSMTPHost()
	if err != nil {
		logger.Warning("mail settings err:", err)
		return
	}
	if host == "" {
		logger.Debug("smtp not configured, dropping mail to", to)
		return
	}

	port, err := m.settingService.GetSMTPPort()
	if err != nil {
		logger.Warning("mail settings err:", err)
		return
	}
	username, _ := m.settingService.GetSMTPUsername()
	password, _ := m.settingService.GetSMTPPassword()
	from, err := m.settingService.GetSMTPFrom()
	if err != nil {
		logger.Warning("mail settings err:", err)
		return
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	dialer := gomail.NewDialer(host, port, username, password)
	if err := dialer.DialAndSend(msg); err != nil {
		logger.Warningf("send mail to %s failed: %v", to, err)
	}
}

// link builds an absolute panel URL for one path segment and token.
func (m *MailService) link(path string, token string) string {
	siteURL, err := m.settingService.GetSiteURL()
	if err != nil {
		siteURL = defaultValueMap["siteURL"]
	}
	basePath, err := m.settingService.GetBasePath()
	if err != nil {
		basePath = "/"
	}
	return strings.TrimRight(siteURL, "/") + basePath + path + "/" + token
}

// SendResetLink mails a password reset link.
func (m *MailService) SendResetLink(to string, token string, ttlMinutes int) {
	body := fmt.Sprintf(
		"A password reset was requested for your house account.\n\n"+
			"Follow this link to choose a new password:\n\n%s\n\n"+
			"The link is valid for %d minutes and can be used once. If you did "+
			"not request it, you can ignore this message.\n",
		m.link("reset", token), ttlMinutes)
	m.send(to, "Password reset", body)
}

// SendInvite mails an account-creation invitation to a new member.
func (m *MailService) SendInvite(to string, name string, token string) {
	body := fmt.Sprintf(
		"Hi %s,\n\nwelcome to the house! Follow this link to create your "+
			"account on the house panel:\n\n%s\n",
		name, m.link("create", token))
	m.send(to, "Create your house account", body)
}

// SendPasswordChanged mails a notice after any successful password change.
func (m *MailService) SendPasswordChanged(to string) {
	body := "The password of your house account was just changed.\n\n" +
		"If that was not you, contact a house officer immediately.\n"
	m.send(to, "Your password was changed", body)
}
