package controller

import (
	"strconv"

	"house-panel/database/model"
	"house-panel/web/middleware"
	"house-panel/web/service"

	"github.com/gin-gonic/gin"
)

type OfficePermissionsForm struct {
	OfficeId    int                `json:"officeId" form:"officeId"`
	Permissions []model.Permission `json:"permissions" form:"permissions"`
}

// OfficeController manages offices, their terms and their permission
// attachments.
type OfficeController struct {
	BaseController

	officeService service.OfficeService
}

func NewOfficeController(g *gin.RouterGroup) *OfficeController {
	a := &OfficeController{}
	a.initRouter(g)
	return a
}

func (a *OfficeController) initRouter(g *gin.RouterGroup) {
	g = g.Group("/offices")

	g.GET("/", a.list)
	g.GET("/:id/terms", a.terms)

	edit := g.Group("/")
	edit.Use(middleware.PermissionRequired(model.PermOffices))
	edit.POST("/add", a.add)
	edit.POST("/update", a.update)
	edit.POST("/terms/add", a.addTerm)
	edit.POST("/terms/:id/end", a.endTerm)
	edit.POST("/permissions", a.setPermissions)
}

func (a *OfficeController) list(c *gin.Context) {
	offices, err := a.officeService.GetOffices()
	if err != nil {
		jsonMsg(c, I18nWeb(c, "pages.offices.title"), err)
		return
	}
	if isAjax(c) {
		jsonObj(c, offices, nil)
		return
	}
	html(c, "offices.html", "pages.offices.title", gin.H{"offices": offices})
}

func (a *OfficeController) terms(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		jsonMsg(c, I18nWeb(c, "pages.offices.title"), err)
		return
	}
	terms, err := a.officeService.GetTerms(id)
	jsonObj(c, terms, err)
}

func (a *OfficeController) add(c *gin.Context) {
	office := &model.Office{}
	if err := c.ShouldBind(office); err != nil {
		jsonMsg(c, I18nWeb(c, "pages.offices.title"), err)
		return
	}
	err := a.officeService.AddOffice(office)
	jsonMsgObj(c, I18nWeb(c, "pages.offices.title"), office, err)
}

func (a *OfficeController) update(c *gin.Context) {
	office := &model.Office{}
	if err := c.ShouldBind(office); err != nil {
		jsonMsg(c, I18nWeb(c, "pages.offices.title"), err)
		return
	}
	err := a.officeService.UpdateOffice(office)
	jsonMsg(c, I18nWeb(c, "pages.offices.title"), err)
}

func (a *OfficeController) addTerm(c *gin.Context) {
	term := &model.OfficeTerm{}
	if err := c.ShouldBind(term); err != nil {
		jsonMsg(c, I18nWeb(c, "pages.offices.title"), err)
		return
	}
	err := a.officeService.AddTerm(term)
	jsonMsgObj(c, I18nWeb(c, "pages.offices.title"), term, err)
}

func (a *OfficeController) endTerm(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		jsonMsg(c, I18nWeb(c, "pages.offices.title"), err)
		return
	}
	err = a.officeService.EndTerm(id)
	jsonMsg(c, I18nWeb(c, "pages.offices.title"), err)
}

func (a *OfficeController) setPermissions(c *gin.Context) {
	var form OfficePermissionsForm
	if err := c.ShouldBind(&form); err != nil {
		jsonMsg(c, I18nWeb(c, "pages.offices.title"), err)
		return
	}
	err := a.officeService.SetOfficePermissions(form.OfficeId, form.Permissions)
	jsonMsg(c, I18nWeb(c, "pages.offices.title"), err)
}
