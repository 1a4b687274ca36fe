package model

type CourseDifficulty string

const (
	DifficultyBeginner     CourseDifficulty = "beginner"
	DifficultyIntermediate CourseDifficulty = "intermediate"
	DifficultyAdvanced     CourseDifficulty = "advanced"
)

// swagger:model Course
type Course struct {
	BaseModel
	Title           string           `gorm:"size:200;not null" json:"title"`
	Description     string           `gorm:"type:text" json:"description"`
	DifficultyLevel CourseDifficulty `gorm:"type:enum('beginner','intermediate','advanced');default:'beginner'" json:"difficultyLevel"`
	ThumbnailURL    string           `gorm:"size:255" json:"thumbnailUrl"`
	InstructorID    uint             `gorm:"index;type:bigint unsigned" json:"instructorId"`
	Published       bool             `gorm:"default:false" json:"published"`
}

func (Course) TableName() string {
	return "courses"
}

// CourseModule 课程-模块关联，Position 决定模块在课程内的顺序
// swagger:model CourseModule
type CourseModule struct {
	BaseModel
	CourseID uint `gorm:"type:bigint unsigned;not null;index:idx_course_module,unique" json:"courseId"`
	ModuleID uint `gorm:"type:bigint unsigned;not null;index:idx_course_module,unique" json:"moduleId"`
	Position int  `gorm:"not null;default:0" json:"position"`
}

func (CourseModule) TableName() string {
	return "course_modules"
}
