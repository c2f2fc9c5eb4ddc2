package controller

import (
	"strconv"

	"house-panel/database/model"
	"house-panel/logger"
	"house-panel/util/common"
	"house-panel/web/entity"
	"house-panel/web/middleware"
	"house-panel/web/service"

	"github.com/gin-gonic/gin"
)

type GrantForm struct {
	UserId     int              `json:"userId" form:"userId"`
	Permission model.Permission `json:"permission" form:"permission"`
}

type RenameForm struct {
	UserId   int    `json:"userId" form:"userId"`
	Username string `json:"username" form:"username"`
}

// AdminController holds everything behind the Admin permission: settings,
// bulk member import, invitations, direct grants and account renames.
type AdminController struct {
	BaseController

	settingService    service.SettingService
	memberService     service.MemberService
	tokenService      service.TokenService
	userService       service.UserService
	permissionService service.PermissionService
	mailService       service.MailService
}

func NewAdminController(g *gin.RouterGroup) *AdminController {
	a := &AdminController{}
	a.initRouter(g)
	return a
}

func (a *AdminController) initRouter(g *gin.RouterGroup) {
	g = g.Group("/admin")
	g.Use(middleware.PermissionRequired(model.PermAdmin))

	g.GET("/", a.page)
	g.GET("/settings", a.getSettings)
	g.POST("/settings", a.updateSettings)
	g.POST("/import", a.importMembers)
	g.POST("/invite/:memberId", a.invite)
	g.POST("/grant", a.grant)
	g.POST("/revoke", a.revoke)
	g.POST("/rename", a.rename)
}

func (a *AdminController) page(c *gin.Context) {
	html(c, "admin.html", "pages.admin.title", gin.H{
		"permissions": model.AllPermissions(),
	})
}

func (a *AdminController) getSettings(c *gin.Context) {
	allSetting, err := a.settingService.GetAllSetting()
	jsonObj(c, allSetting, err)
}

func (a *AdminController) updateSettings(c *gin.Context) {
	allSetting := &entity.AllSetting{}
	if err := c.ShouldBind(allSetting); err != nil {
		jsonMsg(c, I18nWeb(c, "pages.admin.title"), err)
		return
	}
	if err := a.settingService.UpdateAllSetting(allSetting); err != nil {
		jsonMsg(c, I18nWeb(c, "pages.admin.title"), err)
		return
	}
	pureJsonMsg(c, 200, true, I18nWeb(c, "pages.admin.settingsSaved"))
}

// importMembers takes a "name,email[,phone]" CSV upload, creates the members
// and mails each an invitation.
func (a *AdminController) importMembers(c *gin.Context) {
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		jsonMsg(c, I18nWeb(c, "pages.admin.title"), err)
		return
	}
	defer file.Close()

	results, err := a.memberService.ImportCSV(file, &a.tokenService)
	if err != nil {
		jsonMsg(c, I18nWeb(c, "pages.admin.title"), err)
		return
	}

	for _, result := range results {
		if result.Token != "" && result.Email != "" {
			go a.mailService.SendInvite(result.Email, result.Name, result.Token)
		}
	}

	jsonMsgObj(c, I18nWeb(c, "pages.admin.importDone"), results, nil)
}

// invite issues (or reissues) an account-creation token for one member.
func (a *AdminController) invite(c *gin.Context) {
	memberId, err := strconv.Atoi(c.Param("memberId"))
	if err != nil {
		jsonMsg(c, I18nWeb(c, "pages.admin.title"), err)
		return
	}

	member, err := a.memberService.GetMember(memberId)
	if err != nil {
		jsonMsg(c, I18nWeb(c, "pages.admin.title"), err)
		return
	}

	token, err := a.tokenService.IssueCreateToken(memberId)
	if err != nil {
		jsonMsg(c, I18nWeb(c, "pages.admin.title"), err)
		return
	}

	go a.mailService.SendInvite(member.Email, member.Name, token)
	logger.Infof("invitation issued for member %d", memberId)
	pureJsonMsg(c, 200, true, I18nWeb(c, "pages.admin.inviteSent"))
}

func (a *AdminController) grant(c *gin.Context) {
	var form GrantForm
	if err := c.ShouldBind(&form); err != nil {
		jsonMsg(c, I18nWeb(c, "pages.admin.title"), err)
		return
	}
	if !form.Permission.Valid() {
		jsonMsg(c, I18nWeb(c, "pages.admin.title"), common.NewError("unknown permission:", form.Permission))
		return
	}
	err := a.permissionService.GrantPermission(form.UserId, form.Permission)
	jsonMsg(c, I18nWeb(c, "pages.admin.title"), err)
}

func (a *AdminController) revoke(c *gin.Context) {
	var form GrantForm
	if err := c.ShouldBind(&form); err != nil {
		jsonMsg(c, I18nWeb(c, "pages.admin.title"), err)
		return
	}
	err := a.permissionService.RevokePermission(form.UserId, form.Permission)
	jsonMsg(c, I18nWeb(c, "pages.admin.title"), err)
}

// rename changes an account's username. Administrative action per the
// credential rules; the member can not do this themselves.
func (a *AdminController) rename(c *gin.Context) {
	var form RenameForm
	if err := c.ShouldBind(&form); err != nil {
		jsonMsg(c, I18nWeb(c, "pages.admin.title"), err)
		return
	}
	err := a.userService.UpdateUsername(form.UserId, form.Username)
	jsonMsg(c, I18nWeb(c, "pages.admin.title"), err)
}
