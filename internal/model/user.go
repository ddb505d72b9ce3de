package model

// User 结构体表示用户模型，用户由外部预先创建
type User struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	APIKey string `json:"-"` // api-key 不应在JSON中暴露
}

// UserSummary 是关注列表、作者信息中使用的精简用户信息
type UserSummary struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Profile 用户资料，包含关注者与关注列表
type Profile struct {
	ID        int           `json:"id"`
	Name      string        `json:"name"`
	Followers []UserSummary `json:"followers"`
	Following []UserSummary `json:"following"`
}
