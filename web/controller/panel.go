package controller

import (
	"net/http"

	"house-panel/logger"
	"house-panel/util/crypto"
	"house-panel/web/service"
	"house-panel/web/session"

	"github.com/gin-gonic/gin"
)

type ChangePasswordForm struct {
	OldPassword string `json:"oldPassword" form:"oldPassword"`
	NewPassword string `json:"newPassword" form:"newPassword"`
	Confirm     string `json:"confirm" form:"confirm"`
}

// PanelController serves the dashboard and the member's own profile.
type PanelController struct {
	BaseController

	userService   service.UserService
	memberService service.MemberService
	officeService service.OfficeService
	mailService   service.MailService

	members *MemberController
	offices *OfficeController
	hassle  *HassleController
	budget  *BudgetController
	admin   *AdminController
}

func NewPanelController(g *gin.RouterGroup) *PanelController {
	a := &PanelController{}
	a.initRouter(g)
	return a
}

func (a *PanelController) initRouter(g *gin.RouterGroup) {
	g = g.Group("/panel")
	g.Use(a.checkLogin)

	g.GET("/", a.dashboard)
	g.GET("/profile", a.profile)
	g.POST("/profile/password", a.changePassword)

	a.members = NewMemberController(g)
	a.offices = NewOfficeController(g)
	a.hassle = NewHassleController(g)
	a.budget = NewBudgetController(g)
	a.admin = NewAdminController(g)
}

func (a *PanelController) dashboard(c *gin.Context) {
	user := session.GetLoginUser(c)
	members, err := a.memberService.GetMembers()
	if err != nil {
		logger.Warning("load members err:", err)
	}
	html(c, "dashboard.html", "pages.dashboard.title", gin.H{
		"username":    user.Username,
		"memberCount": len(members),
		"permissions": session.GetPermissions(c),
	})
}

func (a *PanelController) profile(c *gin.Context) {
	user := session.GetLoginUser(c)
	member, err := a.memberService.GetMember(user.MemberId)
	if err != nil {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}
	terms, err := a.officeService.GetMemberTerms(member.Id)
	if err != nil {
		logger.Warning("load office terms err:", err)
	}
	html(c, "profile.html", "pages.profile.title", gin.H{
		"member": member,
		"user":   user,
		"terms":  terms,
	})
}

// changePassword is the self-service flow: the old password has to verify
// before the new one is set.
func (a *PanelController) changePassword(c *gin.Context) {
	var form ChangePasswordForm
	if err := c.ShouldBind(&form); err != nil {
		pureJsonMsg(c, http.StatusOK, false, I18nWeb(c, "pages.login.toasts.invalidFormData"))
		return
	}

	user := session.GetLoginUser(c)
	if a.userService.Authenticate(user.Username, form.OldPassword) == nil {
		pureJsonMsg(c, http.StatusOK, false, I18nWeb(c, "pages.profile.wrongOldPassword"))
		return
	}

	if form.NewPassword == "" {
		pureJsonMsg(c, http.StatusOK, false, I18nWeb(c, "pages.reset.emptyPassword"))
		return
	}
	if !crypto.TimingSafeEquals(form.NewPassword, form.Confirm) {
		pureJsonMsg(c, http.StatusOK, false, I18nWeb(c, "pages.reset.passwordMismatch"))
		return
	}

	if err := a.userService.SetPassword(user.Username, form.NewPassword); err != nil {
		jsonMsg(c, I18nWeb(c, "pages.profile.title"), err)
		return
	}

	if member, err := a.memberService.GetMember(user.MemberId); err == nil && member.Email != "" {
		go a.mailService.SendPasswordChanged(member.Email)
	}

	pureJsonMsg(c, http.StatusOK, true, I18nWeb(c, "pages.profile.passwordChanged"))
}
