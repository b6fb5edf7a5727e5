// Package comment はテキスト投稿へのコメント（2階層ツリー）を提供する。
package comment

import (
	"log/slog"

	"github.com/hitoshi/commune/internal/model"
)

// BuildTree はcreated_at昇順のフラットなコメントリストから2階層ツリーを
// 再構築する。各コメントをidで索引し、parent_idがnilならトップレベルへ、
// 非nilなら親のrepliesへ追加する。
// 親が見つからないコメント（親削除後の孤児）は静かに除外する。
// 入力順が保たれるため、トップレベルも各repliesも古い順になる。
func BuildTree(comments []*model.TextPostComment) []*model.TextPostComment {
	byID := make(map[int64]*model.TextPostComment, len(comments))
	topLevel := make([]*model.TextPostComment, 0, len(comments))

	for _, c := range comments {
		c.Replies = []*model.TextPostComment{}
		byID[c.ID] = c
	}

	for _, c := range comments {
		if c.ParentID == nil {
			topLevel = append(topLevel, c)
			continue
		}
		parent, ok := byID[*c.ParentID]
		if !ok {
			slog.Debug("dropping orphan comment", "id", c.ID, "parent_id", *c.ParentID)
			continue
		}
		parent.Replies = append(parent.Replies, c)
	}

	return topLevel
}
