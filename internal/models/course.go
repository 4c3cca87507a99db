package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	SkillBeginner     = "beginner"
	SkillIntermediate = "intermediate"
	SkillAdvanced     = "advanced"
)

func ValidMinimumSkill(skill string) bool {
	return skill == SkillBeginner || skill == SkillIntermediate || skill == SkillAdvanced
}

type Course struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Bootcamp     primitive.ObjectID `bson:"bootcamp" json:"bootcamp"`
	User         primitive.ObjectID `bson:"user" json:"user"`
	Title        string             `bson:"title" json:"title"`
	Description  string             `bson:"description" json:"description"`
	Weeks        int                `bson:"weeks" json:"weeks"`
	Tuition      float64            `bson:"tuition" json:"tuition"`
	MinimumSkill string             `bson:"minimum_skill" json:"minimum_skill"`
	Scholarship  bool               `bson:"scholarship" json:"scholarship"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
}
