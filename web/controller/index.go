package controller

import (
	"net/http"
	"text/template"

	"house-panel/logger"
	"house-panel/util/crypto"
	"house-panel/web/service"
	"house-panel/web/session"

	"github.com/gin-gonic/gin"
)

type LoginForm struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

type ForgotForm struct {
	Username string `json:"username" form:"username"`
}

type ResetForm struct {
	Token    string `json:"token" form:"token"`
	Password string `json:"password" form:"password"`
	Confirm  string `json:"confirm" form:"confirm"`
}

type CreateAccountForm struct {
	Token    string `json:"token" form:"token"`
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
	Confirm  string `json:"confirm" form:"confirm"`
}

// IndexController handles login, logout and the two token-gated flows:
// password reset and invited account creation.
type IndexController struct {
	BaseController

	settingService    service.SettingService
	userService       service.UserService
	tokenService      service.TokenService
	permissionService service.PermissionService
	memberService     service.MemberService
	mailService       service.MailService
}

func NewIndexController(g *gin.RouterGroup) *IndexController {
	a := &IndexController{}
	a.initRouter(g)
	return a
}

func (a *IndexController) initRouter(g *gin.RouterGroup) {
	g.GET("/", a.index)
	g.GET("/logout", a.logout)
	g.POST("/login", a.login)

	g.GET("/forgot", a.forgotPage)
	g.POST("/forgot", a.forgot)
	g.GET("/reset/:token", a.resetPage)
	g.POST("/reset", a.reset)
	g.GET("/create/:token", a.createAccountPage)
	g.POST("/create", a.createAccount)
}

func (a *IndexController) index(c *gin.Context) {
	if session.IsLogin(c) {
		c.Redirect(http.StatusTemporaryRedirect, "panel/")
		return
	}
	html(c, "login.html", "pages.login.title", nil)
}

func (a *IndexController) login(c *gin.Context) {
	var form LoginForm

	if err := c.ShouldBind(&form); err != nil {
		pureJsonMsg(c, http.StatusOK, false, I18nWeb(c, "pages.login.toasts.invalidFormData"))
		return
	}
	if form.Username == "" {
		pureJsonMsg(c, http.StatusOK, false, I18nWeb(c, "pages.login.toasts.emptyUsername"))
		return
	}
	if form.Password == "" {
		pureJsonMsg(c, http.StatusOK, false, I18nWeb(c, "pages.login.toasts.emptyPassword"))
		return
	}

	user := a.userService.Authenticate(form.Username, form.Password)
	safeUser := template.HTMLEscapeString(form.Username)

	if user == nil {
		logger.Warningf("failed login for %q from %s", safeUser, getRemoteIp(c))
		pureJsonMsg(c, http.StatusOK, false, I18nWeb(c, "pages.login.toasts.wrongUsernameOrPassword"))
		return
	}

	permissions, err := a.permissionService.GetPermissions(user.Username)
	if err != nil {
		logger.Warning("get permissions err:", err)
		permissions = nil
	}

	sessionMaxAge, err := a.settingService.GetSessionMaxAge()
	if err != nil {
		logger.Warning("Unable to get session's max age from DB")
	}
	if err := session.SetMaxAge(c, sessionMaxAge*60); err != nil {
		logger.Warning("Unable to set session max age:", err)
	}
	if err := session.SetLoginUser(c, user); err != nil {
		logger.Warning("Unable to save session:", err)
		pureJsonMsg(c, http.StatusOK, false, I18nWeb(c, "pages.login.toasts.wrongUsernameOrPassword"))
		return
	}
	if err := session.SetPermissions(c, permissions); err != nil {
		logger.Warning("Unable to save session permissions:", err)
	}

	logger.Infof("%s logged in successfully, Ip Address: %s", safeUser, getRemoteIp(c))
	jsonMsg(c, I18nWeb(c, "pages.login.toasts.successLogin"), nil)
}

func (a *IndexController) logout(c *gin.Context) {
	user := session.GetLoginUser(c)
	if user != nil {
		logger.Infof("%s logged out successfully", user.Username)
	}
	if err := session.ClearSession(c); err != nil {
		logger.Warning("Unable to clear session:", err)
	}
	c.Redirect(http.StatusTemporaryRedirect, c.GetString("base_path"))
}

func (a *IndexController) forgotPage(c *gin.Context) {
	html(c, "forgot.html", "pages.reset.title", nil)
}

// forgot issues a reset token. The response is identical whether or not the
// username exists, so the endpoint can not be used to enumerate accounts.
func (a *IndexController) forgot(c *gin.Context) {
	var form ForgotForm
	if err := c.ShouldBind(&form); err != nil || form.Username == "" {
		pureJsonMsg(c, http.StatusOK, true, I18nWeb(c, "pages.reset.checkMail"))
		return
	}

	user, err := a.userService.GetUser(form.Username)
	if err == nil {
		member, err := a.memberService.GetMember(user.MemberId)
		if err != nil || member.Email == "" {
			logger.Warningf("reset requested for user %d without contact email", user.Id)
		} else if token, err := a.tokenService.IssueResetToken(user.Username); err != nil {
			logger.Warning("issue reset token err:", err)
		} else {
			ttlMinutes, _ := a.settingService.GetResetTokenMinutes()
			go a.mailService.SendResetLink(member.Email, token, ttlMinutes)
		}
	}

	pureJsonMsg(c, http.StatusOK, true, I18nWeb(c, "pages.reset.checkMail"))
}

func (a *IndexController) resetPage(c *gin.Context) {
	token := c.Param("token")
	user := a.tokenService.ValidateResetToken(token)
	if user == nil {
		html(c, "link_invalid.html", "pages.reset.title", nil)
		return
	}
	html(c, "reset.html", "pages.reset.title", gin.H{"token": token})
}

func (a *IndexController) reset(c *gin.Context) {
	var form ResetForm
	if err := c.ShouldBind(&form); err != nil {
		pureJsonMsg(c, http.StatusOK, false, I18nWeb(c, "pages.reset.invalidLink"))
		return
	}

	user := a.tokenService.ValidateResetToken(form.Token)
	if user == nil {
		pureJsonMsg(c, http.StatusOK, false, I18nWeb(c, "pages.reset.invalidLink"))
		return
	}

	if form.Password == "" {
		pureJsonMsg(c, http.StatusOK, false, I18nWeb(c, "pages.reset.emptyPassword"))
		return
	}
	if !crypto.TimingSafeEquals(form.Password, form.Confirm) {
		pureJsonMsg(c, http.StatusOK, false, I18nWeb(c, "pages.reset.passwordMismatch"))
		return
	}

	if err := a.userService.SetPassword(user.Username, form.Password); err != nil {
		logger.Warning("reset password err:", err)
		pureJsonMsg(c, http.StatusOK, false, I18nWeb(c, "pages.reset.invalidLink"))
		return
	}

	// consume the token even though the page may be retried with stale data
	if err := a.tokenService.ClearResetToken(user.Username); err != nil {
		logger.Warning("clear reset token err:", err)
	}

	if member, err := a.memberService.GetMember(user.MemberId); err == nil && member.Email != "" {
		go a.mailService.SendPasswordChanged(member.Email)
	}

	pureJsonMsg(c, http.StatusOK, true, I18nWeb(c, "pages.reset.passwordChanged"))
}

func (a *IndexController) createAccountPage(c *gin.Context) {
	token := c.Param("token")
	member := a.tokenService.ValidateCreateToken(token)
	if member == nil {
		html(c, "link_invalid.html", "pages.create.title", nil)
		return
	}
	html(c, "create.html", "pages.create.title", gin.H{
		"token": token,
		"name":  member.Name,
	})
}

func (a *IndexController) createAccount(c *gin.Context) {
	var form CreateAccountForm
	if err := c.ShouldBind(&form); err != nil {
		pureJsonMsg(c, http.StatusOK, false, I18nWeb(c, "pages.create.invalidLink"))
		return
	}

	member := a.tokenService.ValidateCreateToken(form.Token)
	if member == nil {
		pureJsonMsg(c, http.StatusOK, false, I18nWeb(c, "pages.create.invalidLink"))
		return
	}

	if form.Password == "" || !crypto.TimingSafeEquals(form.Password, form.Confirm) {
		pureJsonMsg(c, http.StatusOK, false, I18nWeb(c, "pages.reset.passwordMismatch"))
		return
	}

	if _, err := a.userService.CreateAccount(member.Id, form.Username, form.Password); err != nil {
		logger.Warning("create account err:", err)
		pureJsonMsg(c, http.StatusOK, false, I18nWeb(c, "pages.create.usernameTaken"))
		return
	}

	logger.Infof("account created for member %d", member.Id)
	pureJsonMsg(c, http.StatusOK, true, I18nWeb(c, "pages.create.accountCreated"))
}
