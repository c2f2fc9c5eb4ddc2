// Package entity defines the shared request/response structures of the web
// layer.
package entity

import (
	"net"

	"house-panel/util/common"
)

// Msg is the standard JSON response envelope.
type Msg struct {
	Success bool   `json:"success"`
	Msg     string `json:"msg"`
	Obj     any    `json:"obj"`
}

// AllSetting is the editable settings form. Field json tags double as the
// keys of the settings table.
type AllSetting struct {
	WebListen         string `json:"webListen" form:"webListen"`
	WebPort           int    `json:"webPort" form:"webPort"`
	WebCertFile       string `json:"webCertFile" form:"webCertFile"`
	WebKeyFile        string `json:"webKeyFile" form:"webKeyFile"`
	WebBasePath       string `json:"webBasePath" form:"webBasePath"`
	SessionMaxAge     int    `json:"sessionMaxAge" form:"sessionMaxAge"`
	TimeLocation      string `json:"timeLocation" form:"timeLocation"`
	SiteURL           string `json:"siteURL" form:"siteURL"`
	SMTPHost          string `json:"smtpHost" form:"smtpHost"`
	SMTPPort          int    `json:"smtpPort" form:"smtpPort"`
	SMTPUsername      string `json:"smtpUsername" form:"smtpUsername"`
	SMTPPassword      string `json:"smtpPassword" form:"smtpPassword"`
	SMTPFrom          string `json:"smtpFrom" form:"smtpFrom"`
	ResetTokenMinutes int    `json:"resetTokenMinutes" form:"resetTokenMinutes"`
	HassleYear        int    `json:"hassleYear" form:"hassleYear"`
}

func (s *AllSetting) CheckValid() error {
	if s.WebListen != "" {
		ip := net.ParseIP(s.WebListen)
		if ip == nil {
			return common.NewError("web listen is not a valid ip:", s.WebListen)
		}
	}

	if s.WebPort <= 0 || s.WebPort > 65535 {
		return common.NewError("web port is not a valid port:", s.WebPort)
	}

	if s.SessionMaxAge <= 0 {
		return common.NewError("session max age must be positive:", s.SessionMaxAge)
	}

	if s.ResetTokenMinutes <= 0 {
		return common.NewError("reset token lifetime must be positive:", s.ResetTokenMinutes)
	}

	if s.WebBasePath != "" && s.WebBasePath[0] != '/' {
		return common.NewError("base path must start with '/':", s.WebBasePath)
	}

	return nil
}
