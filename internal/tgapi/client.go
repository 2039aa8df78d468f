package tgapi

import (
	"context"
	"encoding/json"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Gift — сырой ответ getAvailableGifts. total/remaining отсутствуют
// у безлимитных подарков, поэтому указатели.
type Gift struct {
	ID             string `json:"id"`
	StarCount      int64  `json:"star_count"`
	TotalCount     *int64 `json:"total_count"`
	RemainingCount *int64 `json:"remaining_count"`
}

// Limited сообщает, что у подарка конечный тираж.
func (g Gift) Limited() bool {
	return g.TotalCount != nil && g.RemainingCount != nil
}

// Client ходит в методы Bot API, для которых в библиотеке нет
// типизированных обёрток (getAvailableGifts, sendGift).
type Client struct {
	api *tgbotapi.BotAPI
}

func New(api *tgbotapi.BotAPI) *Client { return &Client{api: api} }

func (c *Client) AvailableGifts(ctx context.Context) ([]Gift, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	resp, err := c.api.MakeRequest("getAvailableGifts", nil)
	if err != nil {
		return nil, fmt.Errorf("getAvailableGifts: %w", err)
	}

	var result struct {
		Gifts []Gift `json:"gifts"`
	}
	if err := json.Unmarshal(resp.Result, &result); err != nil {
		return nil, fmt.Errorf("getAvailableGifts: decode: %w", err)
	}
	return result.Gifts, nil
}

func (c *Client) SendGift(ctx context.Context, userID int64, giftID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	params := tgbotapi.Params{}
	params.AddNonZero64("user_id", userID)
	params.AddNonEmpty("gift_id", giftID)
	params.AddBool("pay_for_upgrade", false)

	if _, err := c.api.MakeRequest("sendGift", params); err != nil {
		return fmt.Errorf("sendGift %s -> %d: %w", giftID, userID, err)
	}
	return nil
}
