// internal/llm/prompt.go
package llm

import (
	"fmt"

	engine "github.com/jason-s-yu/idiomchain/engine"
)

// DefaultSystemPrompt explains the rules and the reply format to a player.
const DefaultSystemPrompt = `你是成语接龙玩家。对手给你一个成语，你必须用该成语的最后一个字作为首字，说出一个新的成语。

规则：
1. 新成语的第一个字必须与上一个成语的最后一个字完全相同（同字，不是同音）
2. 成语必须真实存在，不可编造
3. 不可重复使用已出现过的成语
4. 无法接龙则认输

回复要求：
- word：你接龙的成语（必须以对手成语末字开头）
- next_word：一个能接在你的成语后面的成语（以你的成语末字开头），用于证明你的成语不是死路
- success：能接龙为true，无法接龙为false

策略提示：选末字生僻的成语来增加对手难度，但你自己必须知道至少一个能接上的成语（填入next_word）。

请只回复一个JSON对象，例如：{"word": "...", "next_word": "...", "success": true}`

// Message is one chat turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// BuildMessages renders the conversation as side sees it. history holds the
// accepted phrases in play order (A1, B1, A2, ...), start phrase excluded.
// The requesting side's own phrases are assistant turns and the opponent's
// are user turns.
//
// A opens with the start phrase as its first user turn. B would otherwise see
// two user turns in a row, so the start phrase moves into B's system prompt
// and A's first move becomes B's first user turn.
func BuildMessages(history []string, side engine.Side, start, systemPrompt string) []Message {
	prompt := systemPrompt
	if prompt == "" {
		prompt = DefaultSystemPrompt
	}

	if side == engine.SideA {
		msgs := make([]Message, 0, len(history)+2)
		msgs = append(msgs,
			Message{Role: RoleSystem, Content: prompt},
			Message{Role: RoleUser, Content: start},
		)
		for i, p := range history {
			role := RoleAssistant
			if i%2 == 1 {
				role = RoleUser
			}
			msgs = append(msgs, Message{Role: role, Content: p})
		}
		return msgs
	}

	msgs := make([]Message, 0, len(history)+1)
	msgs = append(msgs, Message{Role: RoleSystem, Content: fmt.Sprintf("%s\n\n本局起始成语为「%s」。", prompt, start)})
	if len(history) == 0 {
		return append(msgs, Message{Role: RoleUser, Content: start})
	}
	for i, p := range history {
		role := RoleUser
		if i%2 == 1 {
			role = RoleAssistant
		}
		msgs = append(msgs, Message{Role: role, Content: p})
	}
	return msgs
}
