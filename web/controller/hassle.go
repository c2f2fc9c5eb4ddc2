package controller

import (
	"strconv"

	"house-panel/database/model"
	"house-panel/web/middleware"
	"house-panel/web/service"
	"house-panel/web/session"

	"github.com/gin-gonic/gin"
)

type RanksForm struct {
	RoomIds []int `json:"roomIds" form:"roomIds"`
}

// HassleController serves the annual room draft. Submitting ranks is open to
// every logged-in member while a hassle is open; running the draft and
// editing rooms needs the Hassle permission.
type HassleController struct {
	BaseController

	hassleService  service.HassleService
	settingService service.SettingService
}

func NewHassleController(g *gin.RouterGroup) *HassleController {
	a := &HassleController{}
	a.initRouter(g)
	return a
}

func (a *HassleController) initRouter(g *gin.RouterGroup) {
	g = g.Group("/hassle")

	g.GET("/", a.page)
	g.GET("/assignments/:year", a.assignments)
	g.POST("/ranks", a.submitRanks)

	run := g.Group("/")
	run.Use(middleware.PermissionRequired(model.PermHassle))
	run.POST("/rooms/add", a.addRoom)
	run.POST("/rooms/update", a.updateRoom)
	run.POST("/open", a.open)
	run.POST("/close", a.close)
	run.POST("/run", a.run)
}

func (a *HassleController) page(c *gin.Context) {
	rooms, err := a.hassleService.GetRooms()
	if err != nil {
		jsonMsg(c, I18nWeb(c, "pages.hassle.title"), err)
		return
	}
	year, err := a.settingService.GetHassleYear()
	if err != nil {
		jsonMsg(c, I18nWeb(c, "pages.hassle.title"), err)
		return
	}

	user := session.GetLoginUser(c)
	var ranks []*model.RoomRank
	if year > 0 {
		ranks, _ = a.hassleService.GetRanks(user.MemberId, year)
	}

	html(c, "hassle.html", "pages.hassle.title", gin.H{
		"rooms": rooms,
		"year":  year,
		"ranks": ranks,
	})
}

func (a *HassleController) submitRanks(c *gin.Context) {
	var form RanksForm
	if err := c.ShouldBind(&form); err != nil {
		jsonMsg(c, I18nWeb(c, "pages.hassle.title"), err)
		return
	}
	user := session.GetLoginUser(c)
	if err := a.hassleService.SubmitRanks(user.MemberId, form.RoomIds); err != nil {
		jsonMsg(c, I18nWeb(c, "pages.hassle.title"), err)
		return
	}
	jsonMsg(c, I18nWeb(c, "pages.hassle.ranksSaved"), nil)
}

func (a *HassleController) assignments(c *gin.Context) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		jsonMsg(c, I18nWeb(c, "pages.hassle.title"), err)
		return
	}
	assignments, err := a.hassleService.GetAssignments(year)
	jsonObj(c, assignments, err)
}

func (a *HassleController) addRoom(c *gin.Context) {
	room := &model.Room{}
	if err := c.ShouldBind(room); err != nil {
		jsonMsg(c, I18nWeb(c, "pages.hassle.title"), err)
		return
	}
	err := a.hassleService.AddRoom(room)
	jsonMsgObj(c, I18nWeb(c, "pages.hassle.title"), room, err)
}

func (a *HassleController) updateRoom(c *gin.Context) {
	room := &model.Room{}
	if err := c.ShouldBind(room); err != nil {
		jsonMsg(c, I18nWeb(c, "pages.hassle.title"), err)
		return
	}
	err := a.hassleService.UpdateRoom(room)
	jsonMsg(c, I18nWeb(c, "pages.hassle.title"), err)
}

func (a *HassleController) open(c *gin.Context) {
	year, err := strconv.Atoi(c.PostForm("year"))
	if err != nil {
		jsonMsg(c, I18nWeb(c, "pages.hassle.title"), err)
		return
	}
	err = a.hassleService.OpenHassle(year)
	jsonMsg(c, I18nWeb(c, "pages.hassle.title"), err)
}

func (a *HassleController) close(c *gin.Context) {
	err := a.hassleService.CloseHassle()
	jsonMsg(c, I18nWeb(c, "pages.hassle.title"), err)
}

func (a *HassleController) run(c *gin.Context) {
	year, err := strconv.Atoi(c.PostForm("year"))
	if err != nil {
		jsonMsg(c, I18nWeb(c, "pages.hassle.title"), err)
		return
	}
	assignments, err := a.hassleService.RunDraft(year)
	jsonObj(c, assignments, err)
}
