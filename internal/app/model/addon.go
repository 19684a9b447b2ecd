package model

import "time"

type AddOnKey string // 추가 옵션 키

const (
	AddOnMakeup     AddOnKey = "makeup"     // 메이크업 촬영
	AddOnPaebaek    AddOnKey = "paebaek"    // 폐백 촬영
	AddOnReception  AddOnKey = "reception"  // 피로연 촬영
	AddOnUSB        AddOnKey = "usb"        // USB 배송
	AddOnGimbal     AddOnKey = "gimbal"     // 짐벌 촬영
	AddOnSeonwonpan AddOnKey = "seonwonpan" // 선원판
)

// AddOnKeys 견적서에 표시되는 추가 옵션 순서
var AddOnKeys = []AddOnKey{
	AddOnMakeup,
	AddOnPaebaek,
	AddOnReception,
	AddOnUSB,
	AddOnGimbal,
	AddOnSeonwonpan,
}

// AddOn 추가 옵션 카탈로그
type AddOn struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Key       AddOnKey  `gorm:"column:addon_key;type:varchar(30);uniqueIndex;not null" json:"key"`
	Name      string    `gorm:"not null" json:"name"`
	Price     int64     `gorm:"not null" json:"price"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (AddOn) TableName() string {
	return "addons"
}

// AddOnSelection 예약서의 추가 옵션 선택 플래그
type AddOnSelection struct {
	Makeup     bool `gorm:"default:false" json:"makeup"`
	Paebaek    bool `gorm:"default:false" json:"paebaek"`
	Reception  bool `gorm:"default:false" json:"reception"`
	USB        bool `gorm:"default:false" json:"usb"`
	Gimbal     bool `gorm:"default:false" json:"gimbal"`
	Seonwonpan bool `gorm:"default:false" json:"seonwonpan"`
}

// Selected 선택된 옵션 키 목록 (AddOnKeys 순서)
func (s AddOnSelection) Selected() []AddOnKey {
	flags := map[AddOnKey]bool{
		AddOnMakeup:     s.Makeup,
		AddOnPaebaek:    s.Paebaek,
		AddOnReception:  s.Reception,
		AddOnUSB:        s.USB,
		AddOnGimbal:     s.Gimbal,
		AddOnSeonwonpan: s.Seonwonpan,
	}
	var keys []AddOnKey
	for _, key := range AddOnKeys {
		if flags[key] {
			keys = append(keys, key)
		}
	}
	return keys
}
