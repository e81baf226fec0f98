package nlsql

import (
	"fmt"
	"os"
	"strings"
)

// RulePromptV1 is the built-in rule prompt. It constrains the model to emit a
// single PostgreSQL query that returns exactly one number for the video
// metrics schema. The prompt is treated as a versioned artifact: a different
// revision can be supplied at startup via LoadRulePrompt without touching
// this constant.
const RulePromptV1 = `Ты — эксперт по SQL. Твоя задача: на основе вопроса выдать ОДИН SQL-запрос для PostgreSQL.

ТАБЛИЦЫ:
1. "videos": [id, creator_id, views_count, video_created_at] - текущие данные.
2. "video_snapshots": [id, video_id, delta_views_count, created_at] - прирост.

ЗОЛОТЫЕ ПРАВИЛА (ВСЕГДА ИСПОЛЬЗУЙ COUNT ИЛИ SUM ДЛЯ ПОЛУЧЕНИЯ ОДНОГО ЧИСЛА):
- "Сколько видео в системе" -> SELECT COUNT(*) FROM videos;
- "Видео набрало больше X" -> SELECT COUNT(*) FROM videos WHERE views_count > X;
- "Прирост/Выросли за [Дата]" -> SELECT SUM(delta_views_count) FROM video_snapshots WHERE created_at::date = '[Дата]';
- "Разные/Уникальные видео" -> SELECT COUNT(DISTINCT video_id) FROM video_snapshots WHERE delta_views_count > 0 AND created_at::date = '[Дата]';
- "Сколько видео у автора [ID] за период" -> SELECT COUNT(*) FROM videos WHERE creator_id = '[ID]' AND video_created_at::date >= '[Дата1]' AND video_created_at::date <= '[Дата2]';

ТРЕБОВАНИЯ:
- Итоговый запрос должен возвращать только ОДНО число (используй COUNT или SUM).
- UUID всегда в одинарных кавычках.
- Выводи ТОЛЬКО SQL код без пояснений.`

// LoadRulePrompt returns the rule prompt to use for translation. If path is
// empty the built-in revision is returned; otherwise the file contents are
// read and used verbatim.
func LoadRulePrompt(path string) (string, error) {
	if path == "" {
		return RulePromptV1, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read rule prompt file: %w", err)
	}
	prompt := strings.TrimSpace(string(data))
	if prompt == "" {
		return "", fmt.Errorf("rule prompt file %s is empty", path)
	}
	return prompt, nil
}
