package controller

import (
	"strconv"

	"house-panel/database/model"
	"house-panel/web/middleware"
	"house-panel/web/service"

	"github.com/gin-gonic/gin"
)

// MemberController serves the directory. Reading is open to every logged-in
// member; mutation needs the Membership permission.
type MemberController struct {
	BaseController

	memberService service.MemberService
	officeService service.OfficeService
}

func NewMemberController(g *gin.RouterGroup) *MemberController {
	a := &MemberController{}
	a.initRouter(g)
	return a
}

func (a *MemberController) initRouter(g *gin.RouterGroup) {
	g = g.Group("/members")

	g.GET("/", a.list)
	g.GET("/:id", a.get)

	edit := g.Group("/")
	edit.Use(middleware.PermissionRequired(model.PermMembership))
	edit.POST("/add", a.add)
	edit.POST("/update", a.update)
	edit.POST("/:id/depart", a.depart)
}

func (a *MemberController) list(c *gin.Context) {
	members, err := a.memberService.GetMembers()
	if err != nil {
		jsonMsg(c, I18nWeb(c, "pages.members.title"), err)
		return
	}
	if isAjax(c) {
		jsonObj(c, members, nil)
		return
	}
	html(c, "members.html", "pages.members.title", gin.H{"members": members})
}

func (a *MemberController) get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		jsonMsg(c, I18nWeb(c, "pages.members.title"), err)
		return
	}
	member, err := a.memberService.GetMember(id)
	if err != nil {
		jsonMsg(c, I18nWeb(c, "pages.members.title"), err)
		return
	}
	terms, err := a.officeService.GetMemberTerms(id)
	if err != nil {
		jsonMsg(c, I18nWeb(c, "pages.members.title"), err)
		return
	}
	if isAjax(c) {
		jsonObj(c, gin.H{"member": member, "terms": terms}, nil)
		return
	}
	html(c, "member.html", "pages.members.title", gin.H{"member": member, "terms": terms})
}

func (a *MemberController) add(c *gin.Context) {
	member := &model.Member{}
	if err := c.ShouldBind(member); err != nil {
		jsonMsg(c, I18nWeb(c, "pages.members.title"), err)
		return
	}
	err := a.memberService.AddMember(member)
	jsonMsgObj(c, I18nWeb(c, "pages.members.title"), member, err)
}

func (a *MemberController) update(c *gin.Context) {
	member := &model.Member{}
	if err := c.ShouldBind(member); err != nil {
		jsonMsg(c, I18nWeb(c, "pages.members.title"), err)
		return
	}
	err := a.memberService.UpdateMember(member)
	jsonMsg(c, I18nWeb(c, "pages.members.title"), err)
}

func (a *MemberController) depart(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		jsonMsg(c, I18nWeb(c, "pages.members.title"), err)
		return
	}
	status := model.MemberStatus(c.PostForm("status"))
	err = a.memberService.DepartMember(id, status)
	jsonMsg(c, I18nWeb(c, "pages.members.title"), err)
}
