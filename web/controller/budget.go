package controller

import (
	"strconv"

	"house-panel/database/model"
	"house-panel/web/middleware"
	"house-panel/web/service"
	"house-panel/web/session"

	"github.com/gin-gonic/gin"
)

// BudgetController serves the ledger. Every member can read it; writing
// needs the Budget permission.
type BudgetController struct {
	BaseController

	budgetService service.BudgetService
}

func NewBudgetController(g *gin.RouterGroup) *BudgetController {
	a := &BudgetController{}
	a.initRouter(g)
	return a
}

func (a *BudgetController) initRouter(g *gin.RouterGroup) {
	g = g.Group("/budget")

	g.GET("/", a.page)
	g.GET("/:semester", a.entries)

	edit := g.Group("/")
	edit.Use(middleware.PermissionRequired(model.PermBudget))
	edit.POST("/add", a.add)
	edit.POST("/:id/delete", a.delete)
}

func (a *BudgetController) page(c *gin.Context) {
	semesters, err := a.budgetService.GetSemesters()
	if err != nil {
		jsonMsg(c, I18nWeb(c, "pages.budget.title"), err)
		return
	}
	html(c, "budget.html", "pages.budget.title", gin.H{"semesters": semesters})
}

func (a *BudgetController) entries(c *gin.Context) {
	semester := c.Param("semester")
	entries, err := a.budgetService.GetEntries(semester)
	if err != nil {
		jsonMsg(c, I18nWeb(c, "pages.budget.title"), err)
		return
	}
	balance, err := a.budgetService.GetBalance(semester)
	if err != nil {
		jsonMsg(c, I18nWeb(c, "pages.budget.title"), err)
		return
	}
	summary, err := a.budgetService.GetCategorySummary(semester)
	if err != nil {
		jsonMsg(c, I18nWeb(c, "pages.budget.title"), err)
		return
	}
	jsonObj(c, gin.H{
		"entries": entries,
		"balance": balance,
		"summary": summary,
	}, nil)
}

func (a *BudgetController) add(c *gin.Context) {
	entry := &model.BudgetEntry{}
	if err := c.ShouldBind(entry); err != nil {
		jsonMsg(c, I18nWeb(c, "pages.budget.title"), err)
		return
	}
	entry.EnteredBy = session.GetLoginUser(c).Id
	err := a.budgetService.AddEntry(entry)
	jsonMsgObj(c, I18nWeb(c, "pages.budget.title"), entry, err)
}

func (a *BudgetController) delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		jsonMsg(c, I18nWeb(c, "pages.budget.title"), err)
		return
	}
	err = a.budgetService.DeleteEntry(id)
	jsonMsg(c, I18nWeb(c, "pages.budget.title"), err)
}
