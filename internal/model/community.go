package model

// Post 社区帖子
// swagger:model Post
type Post struct {
	BaseModel
	UserID   uint      `gorm:"index;type:bigint unsigned;not null" json:"userId"`
	Title    string    `gorm:"size:200;not null" json:"title"`
	Content  string    `gorm:"type:text" json:"content"`
	Comments []Comment `gorm:"foreignKey:PostID" json:"comments,omitempty"`
}

func (Post) TableName() string {
	return "posts"
}

// swagger:model Comment
type Comment struct {
	BaseModel
	PostID  uint   `gorm:"index;type:bigint unsigned;not null" json:"postId"`
	UserID  uint   `gorm:"index;type:bigint unsigned;not null" json:"userId"`
	Content string `gorm:"type:text;not null" json:"content"`
}

func (Comment) TableName() string {
	return "comments"
}
