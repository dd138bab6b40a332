package bot

import (
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// mainReplyKeyboard is the bottom panel; the report button points at the
// current month.
func mainReplyKeyboard(today time.Time) tgbotapi.ReplyKeyboardMarkup {
	month := fmt.Sprintf("%d月", int(today.Month()))
	return tgbotapi.ReplyKeyboardMarkup{
		ResizeKeyboard: true,
		Keyboard: [][]tgbotapi.KeyboardButton{
			{tgbotapi.NewKeyboardButton("清單 人名"), tgbotapi.NewKeyboardButton("清單 地點")},
			{tgbotapi.NewKeyboardButton("清單 月項目"), tgbotapi.NewKeyboardButton("清單 月結算")},
			{tgbotapi.NewKeyboardButton("報表 " + month)},
			{tgbotapi.NewKeyboardButton("說明"), tgbotapi.NewKeyboardButton("測試")},
		},
	}
}
