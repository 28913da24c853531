package prompt

// Lesson is a fixed drill with a target speed.
type Lesson struct {
	ID        string
	Title     string
	Text      string
	TargetWPM int
	Category  string
}

var lessons = []Lesson{
	{ID: "home1", Title: "Home Row: ASDF", Text: "asdf asdf asdf fdsa fdsa fdsa", TargetWPM: 20, Category: "home"},
	{ID: "home2", Title: "Home Row: JKL;", Text: "jkl; jkl; jkl; ;lkj ;lkj ;lkj", TargetWPM: 20, Category: "home"},
	{ID: "home3", Title: "Home Row Combined", Text: "asdf jkl; asdf jkl; fdsa ;lkj fdsa ;lkj", TargetWPM: 25, Category: "home"},
	{ID: "top1", Title: "Top Row: QWER", Text: "qwer qwer qwer rewq rewq rewq", TargetWPM: 20, Category: "top"},
	{ID: "top2", Title: "Top Row: UIOP", Text: "uiop uiop uiop poiu poiu poiu", TargetWPM: 20, Category: "top"},
	{ID: "top3", Title: "Top Row Combined", Text: "qwerty qwerty poiuy poiuy trewq trewq", TargetWPM: 25, Category: "top"},
	{ID: "bottom1", Title: "Bottom Row: ZXCV", Text: "zxcv zxcv zxcv vcxz vcxz vcxz", TargetWPM: 20, Category: "bottom"},
	{ID: "bottom2", Title: "Bottom Row: NM,./", Text: "nm,./ nm,./ nm,./ /.,mn /.,mn /.,mn", TargetWPM: 20, Category: "bottom"},
	{ID: "bottom3", Title: "Bottom Row Combined", Text: "zxcv nm,./ zxcv nm,./ vcxz /.,mn vcxz /.,mn", TargetWPM: 25, Category: "bottom"},
	{ID: "full1", Title: "All Letters", Text: "the quick brown fox jumps over the lazy dog", TargetWPM: 30, Category: "full"},
	{ID: "full2", Title: "Numbers", Text: "12345 67890 09876 54321", TargetWPM: 25, Category: "full"},
	{ID: "full3", Title: "Symbols", Text: "!@#$% ^&*() _+{}| :\"<>? ~`[]\\", TargetWPM: 20, Category: "full"},
	{ID: "full4", Title: "Mixed Practice", Text: "Hello World! 123 Main St. var x = 5;", TargetWPM: 30, Category: "full"},
}

// Lessons returns the lesson catalog in display order.
func Lessons() []Lesson {
	return append([]Lesson(nil), lessons...)
}

// FindLesson looks up a lesson by id.
func FindLesson(id string) (Lesson, bool) {
	for _, l := range lessons {
		if l.ID == id {
			return l, true
		}
	}
	return Lesson{}, false
}
