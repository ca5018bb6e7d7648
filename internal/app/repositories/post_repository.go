package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pathpiper/backend/internal/app/models"
	"github.com/pathpiper/backend/internal/db"
	"github.com/pathpiper/backend/internal/domain"
	"github.com/pathpiper/backend/internal/pkg/logger"
)

// Post error types
var (
	ErrPostNotFound = ErrNotFound
	// ErrNotRootPost is returned when a trail references a parent that is
	// itself a trail.
	ErrNotRootPost = errors.New("parent post is not a root post")
)

// PostRepository handles feed post database operations
type PostRepository struct {
	db *pgxpool.Pool
}

// NewPostRepository creates a new PostRepository
func NewPostRepository(db *pgxpool.Pool) *PostRepository {
	return &PostRepository{db: db}
}

const postColumns = "id, profile_id, content, image_url, is_trail, parent_post_id, trail_order, post_type, subjects, tags, moderation_status, engagement_score, likes_count, comments_count, shares_count, views_count, created_at, updated_at"

func scanPost(row pgx.Row) (*models.FeedPost, error) {
	p := &models.FeedPost{}
	err := row.Scan(&p.ID, &p.ProfileID, &p.Content, &p.ImageURL, &p.IsTrail,
		&p.ParentPostID, &p.TrailOrder, &p.PostType, &p.Subjects, &p.Tags,
		&p.ModerationStatus, &p.EngagementScore, &p.LikesCount, &p.CommentsCount,
		&p.SharesCount, &p.ViewsCount, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func insertPost(ctx context.Context, tx pgx.Tx, p *models.FeedPost) error {
	sql, args, err := psql.Insert("feed_posts").
		Columns("profile_id", "content", "image_url", "is_trail", "parent_post_id", "trail_order",
			"post_type", "subjects", "tags", "moderation_status", "engagement_score").
		Values(p.ProfileID, p.Content, p.ImageURL, p.IsTrail, p.ParentPostID, p.TrailOrder,
			p.PostType, p.Subjects, p.Tags, p.ModerationStatus, p.EngagementScore).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert post query: %w", err)
	}

	if err := tx.QueryRow(ctx, sql, args...).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		logger.Error().Err(err).Msg("Error executing insert post query")
		return fmt.Errorf("error inserting post: %w", err)
	}
	return nil
}

// CreateRootWithTrails inserts a root post and its initial trail chain in
// one transaction, assigning trail orders 1..n.
func (r *PostRepository) CreateRootWithTrails(ctx context.Context, root *models.FeedPost, trails []*models.FeedPost) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		if err := insertPost(ctx, tx, root); err != nil {
			return err
		}

		for i, trail := range trails {
			trail.IsTrail = true
			trail.ParentPostID = &root.ID
			trail.TrailOrder = i + 1
			if err := insertPost(ctx, tx, trail); err != nil {
				return err
			}
		}

		root.Trails = trails
		return nil
	})
}

// AppendTrail inserts a trail post under parentID with the next trail order.
// The parent row is locked for the duration of the transaction, so
// concurrent appends against the same parent serialize and the resulting
// orders are exactly {1..N} with no duplicates or gaps.
func (r *PostRepository) AppendTrail(ctx context.Context, parentID int64, trail *models.FeedPost) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		var isTrail bool
		err := tx.QueryRow(ctx, "SELECT is_trail FROM feed_posts WHERE id = $1 FOR UPDATE", parentID).Scan(&isTrail)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrPostNotFound
			}
			return fmt.Errorf("error locking parent post: %w", err)
		}
		if isTrail {
			return ErrNotRootPost
		}

		var maxOrder int
		err = tx.QueryRow(ctx, "SELECT COALESCE(MAX(trail_order), 0) FROM feed_posts WHERE parent_post_id = $1", parentID).Scan(&maxOrder)
		if err != nil {
			return fmt.Errorf("error reading max trail order: %w", err)
		}

		trail.IsTrail = true
		trail.ParentPostID = &parentID
		trail.TrailOrder = maxOrder + 1
		return insertPost(ctx, tx, trail)
	})
}

// GetPostByID retrieves a post by id
func (r *PostRepository) GetPostByID(ctx context.Context, id int64) (*models.FeedPost, error) {
	sql, args, err := psql.Select(postColumns).
		From("feed_posts").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get post query: %w", err)
	}

	post, err := scanPost(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPostNotFound
		}
		logger.Error().Err(err).Int64("postID", id).Msg("Error scanning post row")
		return nil, fmt.Errorf("error getting post by ID: %w", err)
	}
	return post, nil
}

// FeedFilter carries the feed listing filters
type FeedFilter struct {
	PostType string // Exact post_type match
	Subject  string // Membership in the subjects array
	Trending bool   // Order by recomputed weighted score instead of recency
}

// ListFeed retrieves approved root posts with pagination. Trails and
// per-viewer like status are loaded separately by the service.
func (r *PostRepository) ListFeed(ctx context.Context, filter FeedFilter, offset uint64, limit int) ([]*models.FeedPost, int64, error) {
	where := squirrel.And{
		squirrel.Eq{"is_trail": false},
		squirrel.Eq{"moderation_status": domain.ModerationApproved},
	}
	if filter.PostType != "" {
		where = append(where, squirrel.Eq{"post_type": filter.PostType})
	}
	if filter.Subject != "" {
		where = append(where, squirrel.Expr("? = ANY(subjects)", filter.Subject))
	}

	countSQL, countArgs, err := psql.Select("COUNT(*)").From("feed_posts").Where(where).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count feed query: %w", err)
	}
	var total int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting feed posts: %w", err)
	}

	// Trending recomputes the canonical weighted score at read time; the
	// persisted engagement_score remains the incrementally maintained value.
	orderBy := "created_at DESC"
	if filter.Trending {
		orderBy = "(likes_count * 1 + comments_count * 2 + shares_count * 3 + views_count * 0.1) DESC"
	}

	sql, args, err := psql.Select(postColumns).
		From("feed_posts").
		Where(where).
		OrderBy(orderBy, "id DESC").
		Offset(offset).
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list feed query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error querying feed posts: %w", err)
	}
	defer rows.Close()

	posts := []*models.FeedPost{}
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning feed post row: %w", err)
		}
		posts = append(posts, post)
	}
	return posts, total, rows.Err()
}

// ListTrails retrieves the ordered trail chain of a root post
func (r *PostRepository) ListTrails(ctx context.Context, parentID int64) ([]*models.FeedPost, error) {
	sql, args, err := psql.Select(postColumns).
		From("feed_posts").
		Where(squirrel.Eq{"parent_post_id": parentID}).
		OrderBy("trail_order ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list trails query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying trails: %w", err)
	}
	defer rows.Close()

	trails := []*models.FeedPost{}
	for rows.Next() {
		trail, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning trail row: %w", err)
		}
		trails = append(trails, trail)
	}
	return trails, rows.Err()
}

// ListTrailsForParents batch-loads trails for a set of root posts
func (r *PostRepository) ListTrailsForParents(ctx context.Context, parentIDs []int64) (map[int64][]*models.FeedPost, error) {
	if len(parentIDs) == 0 {
		return map[int64][]*models.FeedPost{}, nil
	}

	sql, args, err := psql.Select(postColumns).
		From("feed_posts").
		Where(squirrel.Eq{"parent_post_id": parentIDs}).
		OrderBy("parent_post_id ASC", "trail_order ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build batch trails query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying batch trails: %w", err)
	}
	defer rows.Close()

	byParent := map[int64][]*models.FeedPost{}
	for rows.Next() {
		trail, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning batch trail row: %w", err)
		}
		if trail.ParentPostID != nil {
			byParent[*trail.ParentPostID] = append(byParent[*trail.ParentPostID], trail)
		}
	}
	return byParent, rows.Err()
}

// UpdateTrailContent edits a trail post owned by profileID
func (r *PostRepository) UpdateTrailContent(ctx context.Context, trailID int64, profileID, content string) error {
	sql, args, err := psql.Update("feed_posts").
		Set("content", content).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": trailID, "profile_id": profileID, "is_trail": true}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update trail query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("trailID", trailID).Msg("Error executing update trail query")
		return fmt.Errorf("error updating trail: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrPostNotFound
	}
	return nil
}

// DeleteTrail removes a trail post owned by profileID
func (r *PostRepository) DeleteTrail(ctx context.Context, trailID int64, profileID string) error {
	sql, args, err := psql.Delete("feed_posts").
		Where(squirrel.Eq{"id": trailID, "profile_id": profileID, "is_trail": true}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete trail query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("trailID", trailID).Msg("Error executing delete trail query")
		return fmt.Errorf("error deleting trail: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrPostNotFound
	}
	return nil
}

// IncrementViews bumps view counters and the persisted score by the view
// weight, one atomic statement for the whole page of posts.
func (r *PostRepository) IncrementViews(ctx context.Context, postIDs []int64) error {
	if len(postIDs) == 0 {
		return nil
	}
	_, err := r.db.Exec(ctx,
		"UPDATE feed_posts SET views_count = views_count + 1, engagement_score = engagement_score + $1 WHERE id = ANY($2)",
		domain.ViewWeight, postIDs)
	if err != nil {
		return fmt.Errorf("error incrementing views: %w", err)
	}
	return nil
}

// ToggleReaction applies the reaction state machine for one (post, user)
// pair inside a transaction: first reaction inserts (+1), repeating the same
// type removes (-1), a different type switches the stored type with no score
// change. The row lock on the existing reaction makes the toggle
// exactly-once under concurrent requests. Returns the resulting state.
func (r *PostRepository) ToggleReaction(ctx context.Context, postID int64, profileID, reactionType string) (reacted bool, storedType string, err error) {
	err = db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		var current string
		scanErr := tx.QueryRow(ctx,
			"SELECT reaction_type FROM post_reactions WHERE post_id = $1 AND profile_id = $2 FOR UPDATE",
			postID, profileID).Scan(&current)

		switch {
		case errors.Is(scanErr, pgx.ErrNoRows):
			if _, err := tx.Exec(ctx,
				"INSERT INTO post_reactions (post_id, profile_id, reaction_type) VALUES ($1, $2, $3)",
				postID, profileID, reactionType); err != nil {
				return fmt.Errorf("error inserting reaction: %w", err)
			}
			if err := adjustEngagement(ctx, tx, postID, 1, domain.LikeWeight); err != nil {
				return err
			}
			reacted, storedType = true, reactionType

		case scanErr != nil:
			return fmt.Errorf("error reading reaction: %w", scanErr)

		case current == reactionType:
			if _, err := tx.Exec(ctx,
				"DELETE FROM post_reactions WHERE post_id = $1 AND profile_id = $2",
				postID, profileID); err != nil {
				return fmt.Errorf("error deleting reaction: %w", err)
			}
			if err := adjustEngagement(ctx, tx, postID, -1, -domain.LikeWeight); err != nil {
				return err
			}
			reacted, storedType = false, ""

		default:
			// Switching reaction type leaves the score untouched
			if _, err := tx.Exec(ctx,
				"UPDATE post_reactions SET reaction_type = $3 WHERE post_id = $1 AND profile_id = $2",
				postID, profileID, reactionType); err != nil {
				return fmt.Errorf("error switching reaction type: %w", err)
			}
			reacted, storedType = true, reactionType
		}

		return nil
	})
	return reacted, storedType, err
}

// ToggleLike is the degraded-mode fallback used when the enhanced reaction
// relation is unavailable: a plain like toggle on post_likes with the same
// atomic accounting.
func (r *PostRepository) ToggleLike(ctx context.Context, postID int64, profileID string) (liked bool, err error) {
	err = db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		cmdTag, execErr := tx.Exec(ctx,
			"DELETE FROM post_likes WHERE post_id = $1 AND profile_id = $2",
			postID, profileID)
		if execErr != nil {
			return fmt.Errorf("error removing like: %w", execErr)
		}

		if cmdTag.RowsAffected() > 0 {
			liked = false
			return adjustEngagement(ctx, tx, postID, -1, -domain.LikeWeight)
		}

		if _, execErr := tx.Exec(ctx,
			"INSERT INTO post_likes (post_id, profile_id) VALUES ($1, $2)",
			postID, profileID); execErr != nil {
			return fmt.Errorf("error inserting like: %w", execErr)
		}
		liked = true
		return adjustEngagement(ctx, tx, postID, 1, domain.LikeWeight)
	})
	return liked, err
}

func adjustEngagement(ctx context.Context, tx pgx.Tx, postID int64, likesDelta int64, scoreDelta float64) error {
	cmdTag, err := tx.Exec(ctx,
		"UPDATE feed_posts SET likes_count = likes_count + $1, engagement_score = engagement_score + $2 WHERE id = $3",
		likesDelta, scoreDelta, postID)
	if err != nil {
		return fmt.Errorf("error adjusting engagement counters: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrPostNotFound
	}
	return nil
}

// ReactedPostIDs returns which of the given posts the viewer has reacted to
func (r *PostRepository) ReactedPostIDs(ctx context.Context, profileID string, postIDs []int64) (map[int64]bool, error) {
	if len(postIDs) == 0 {
		return map[int64]bool{}, nil
	}

	rows, err := r.db.Query(ctx,
		"SELECT post_id FROM post_reactions WHERE profile_id = $1 AND post_id = ANY($2)",
		profileID, postIDs)
	if err != nil {
		return nil, fmt.Errorf("error querying viewer reactions: %w", err)
	}
	defer rows.Close()

	reacted := map[int64]bool{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning viewer reaction row: %w", err)
		}
		reacted[id] = true
	}
	return reacted, rows.Err()
}
