package models

// CriterionID identifies one of the ten official ЕГЭ Task 27 scoring
// criteria (К1–К10).
type CriterionID string

const (
	K1  CriterionID = "K1"
	K2  CriterionID = "K2"
	K3  CriterionID = "K3"
	K4  CriterionID = "K4"
	K5  CriterionID = "K5"
	K6  CriterionID = "K6"
	K7  CriterionID = "K7"
	K8  CriterionID = "K8"
	K9  CriterionID = "K9"
	K10 CriterionID = "K10"
)

// TotalMaxScore is the denominator used everywhere a total is displayed.
// The registry below must sum to exactly this value.
const TotalMaxScore = 22

// CriterionOrder is the canonical K1..K10 ordering. Tie-breaks in error
// highlighting and all user-facing listings follow this order.
var CriterionOrder = []CriterionID{K1, K2, K3, K4, K5, K6, K7, K8, K9, K10}

// CriterionDefinition is the static, immutable definition of a single
// scoring criterion.
type CriterionDefinition struct {
	ID             CriterionID `json:"id"`
	Title          string      `json:"title"`
	MaxScore       int         `json:"maxScore"`
	ColorTag       string      `json:"color"`
	Recommendation string      `json:"recommendation"`
}

// Criteria is the registry of the ten official criteria with their fixed
// point ceilings (sum = 22).
var Criteria = map[CriterionID]CriterionDefinition{
	K1:  {ID: K1, Title: "Позиция автора", MaxScore: 1, ColorTag: "red", Recommendation: "Верно сформулируйте позицию автора (рассказчика) по проблеме исходного текста."},
	K2:  {ID: K2, Title: "Комментарий к позиции", MaxScore: 3, ColorTag: "orange", Recommendation: "Приведите 2 примера-иллюстрации, поясните их и укажите смысловую связь между ними."},
	K3:  {ID: K3, Title: "Собственное отношение", MaxScore: 2, ColorTag: "amber", Recommendation: "Выразите свое согласие/несогласие и обоснуйте его (приведите аргумент из жизни или литературы)."},
	K4:  {ID: K4, Title: "Фактическая точность", MaxScore: 1, ColorTag: "violet", Recommendation: "Не допускайте искажения фактов в фоновом материале (имена, даты, события)."},
	K5:  {ID: K5, Title: "Логичность речи", MaxScore: 2, ColorTag: "lime", Recommendation: "Следите за логикой изложения и абзацным членением текста."},
	K6:  {ID: K6, Title: "Этические нормы", MaxScore: 1, ColorTag: "indigo", Recommendation: "Не допускайте проявлений речевой агрессии и этических ошибок."},
	K7:  {ID: K7, Title: "Орфографические нормы", MaxScore: 3, ColorTag: "emerald", Recommendation: "Внимательно проверяйте написание слов."},
	K8:  {ID: K8, Title: "Пунктуационные нормы", MaxScore: 3, ColorTag: "teal", Recommendation: "Следите за знаками препинания."},
	K9:  {ID: K9, Title: "Грамматические нормы", MaxScore: 3, ColorTag: "cyan", Recommendation: "Соблюдайте нормы словообразования, морфологии и синтаксиса."},
	K10: {ID: K10, Title: "Речевые нормы", MaxScore: 3, ColorTag: "sky", Recommendation: "Следите за лексической сочетаемостью и точностью словоупотребления."},
}

// CriterionGroup is a display grouping of criteria.
type CriterionGroup struct {
	Title            string        `json:"title"`
	ShortDescription string        `json:"shortDescription"`
	Description      string        `json:"description"`
	Criteria         []CriterionID `json:"criteria"`
}

var CriterionGroups = []CriterionGroup{
	{
		Title:            "Содержание сочинения",
		ShortDescription: "Позиция, комментарий, отношение",
		Description:      "Оценивается понимание позиции автора, качество комментария и обоснование собственного мнения.",
		Criteria:         []CriterionID{K1, K2, K3},
	},
	{
		Title:            "Речевое оформление",
		ShortDescription: "Факты, логика, этика",
		Description:      "Оценивается точность фактов, логическая связность текста и соблюдение этических норм.",
		Criteria:         []CriterionID{K4, K5, K6},
	},
	{
		Title:            "Грамотность",
		ShortDescription: "Орфография, пунктуация, речь",
		Description:      "Оценивается соблюдение всех языковых норм (орфография, пунктуация, грамматика, речь).",
		Criteria:         []CriterionID{K7, K8, K9, K10},
	},
}

// CriterionByID looks up a criterion definition by its id.
func CriterionByID(id CriterionID) (CriterionDefinition, bool) {
	def, ok := Criteria[id]
	return def, ok
}
