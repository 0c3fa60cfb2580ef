package model

// Trip 一次旅行，游记的顶层实体
type Trip struct {
	Model
	Title       string  `gorm:"type:varchar(200);not null" json:"title"`
	Location    string  `gorm:"type:varchar(200)" json:"location"`
	Image       string  `gorm:"type:varchar(500)" json:"image"` // 封面图片 URL
	Author      string  `gorm:"type:varchar(100)" json:"author"`
	Distance    string  `gorm:"type:varchar(50)" json:"distance"`
	Cities      string  `gorm:"type:varchar(50)" json:"cities"`
	Duration    string  `gorm:"type:varchar(50)" json:"duration"`
	Description string  `gorm:"type:text" json:"description"`
	Entries     []Entry `gorm:"foreignKey:TripID;constraint:OnDelete:CASCADE" json:"entries,omitempty"`
}

// TripPatch 部分更新，nil 表示不修改
type TripPatch struct {
	Title       *string `json:"title"`
	Location    *string `json:"location"`
	Image       *string `json:"image"`
	Author      *string `json:"author"`
	Distance    *string `json:"distance"`
	Cities      *string `json:"cities"`
	Duration    *string `json:"duration"`
	Description *string `json:"description"`
}

// Fields 返回出现在 patch 中的列，key 为 json 字段名
func (p TripPatch) Fields() map[string]string {
	out := map[string]string{}
	set := func(key string, v *string) {
		if v != nil {
			out[key] = *v
		}
	}
	set("title", p.Title)
	set("location", p.Location)
	set("image", p.Image)
	set("author", p.Author)
	set("distance", p.Distance)
	set("cities", p.Cities)
	set("duration", p.Duration)
	set("description", p.Description)
	return out
}

// Apply 把 patch 写到 t 上
func (p TripPatch) Apply(t *Trip) {
	for key, v := range p.Fields() {
		switch key {
		case "title":
			t.Title = v
		case "location":
			t.Location = v
		case "image":
			t.Image = v
		case "author":
			t.Author = v
		case "distance":
			t.Distance = v
		case "cities":
			t.Cities = v
		case "duration":
			t.Duration = v
		case "description":
			t.Description = v
		}
	}
}
