package model

// DefaultEntryContent 新建条目时的占位内容
const DefaultEntryContent = "<p>Write about your day...</p>"

// Entry 某一天、某个城市的一篇日记，属于一个 Trip
type Entry struct {
	Model
	TripID  string `gorm:"type:varchar(36);index;not null" json:"tripId" sheet:"tripId"`
	City    string `gorm:"type:varchar(200)" json:"city"`
	Date    string `gorm:"type:varchar(32)" json:"date"`
	Content string `gorm:"type:mediumtext" json:"content"` // 富文本 HTML
}

type EntryPatch struct {
	City    *string `json:"city"`
	Date    *string `json:"date"`
	Content *string `json:"content"`
}

func (p EntryPatch) Fields() map[string]string {
	out := map[string]string{}
	if p.City != nil {
		out["city"] = *p.City
	}
	if p.Date != nil {
		out["date"] = *p.Date
	}
	if p.Content != nil {
		out["content"] = *p.Content
	}
	return out
}

func (p EntryPatch) Apply(e *Entry) {
	if p.City != nil {
		e.City = *p.City
	}
	if p.Date != nil {
		e.Date = *p.Date
	}
	if p.Content != nil {
		e.Content = *p.Content
	}
}

func (p EntryPatch) Empty() bool {
	return p.City == nil && p.Date == nil && p.Content == nil
}
