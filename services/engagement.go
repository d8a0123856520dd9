package services

import (
	"context"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/engrsakib/weblog-with-go/models"
)

// EngagementService orchestrates the cross-collection sequences behind
// comments, likes and reads. Each action is a sequence of independent
// writes, not a transaction: a failure partway through leaves the earlier
// steps in place. That drift is accepted for an engagement feature; no step
// is rolled back, the failure is logged and surfaced to the caller.
type EngagementService struct {
	blogs         *BlogStore
	comments      *CommentStore
	ledger        *CounterLedger
	notifications *NotificationService
	log           *slog.Logger
}

func NewEngagementService(blogs *BlogStore, comments *CommentStore, ledger *CounterLedger, notifications *NotificationService, log *slog.Logger) *EngagementService {
	if log == nil {
		log = slog.Default()
	}
	return &EngagementService{
		blogs:         blogs,
		comments:      comments,
		ledger:        ledger,
		notifications: notifications,
		log:           log,
	}
}

// AddComment creates a comment or reply, links it into the graph, bumps
// the blog counters and fans out one notification. Top-level comments
// notify the blog author; replies notify the parent comment's author.
func (s *EngagementService) AddComment(ctx context.Context, blogID, actorID primitive.ObjectID, body string, parentID *primitive.ObjectID) (models.Comment, error) {
	blog, err := s.blogs.GetByID(ctx, blogID)
	if err != nil {
		return models.Comment{}, err
	}

	var parent models.Comment
	if parentID != nil {
		parent, err = s.comments.Get(ctx, *parentID)
		if err != nil {
			return models.Comment{}, err
		}
	}

	comment, err := s.comments.Create(ctx, blog.ID, blog.Author, actorID, body, parentID)
	if err != nil {
		return models.Comment{}, err
	}

	if err := s.comments.LinkChild(ctx, parentID, comment.ID); err != nil {
		s.log.Error("add comment: link child failed", "comment", comment.ID.Hex(), "error", err)
		return models.Comment{}, err
	}
	if err := s.blogs.AttachComment(ctx, blog.ID, comment.ID); err != nil {
		s.log.Error("add comment: attach to blog failed", "comment", comment.ID.Hex(), "error", err)
		return models.Comment{}, err
	}

	if err := s.ledger.ApplyDelta(ctx, blog.ID, FieldComments, 1); err != nil {
		s.log.Error("add comment: comment counter failed", "blog", blog.ID.Hex(), "error", err)
		return models.Comment{}, err
	}
	var parentDelta int64 = 1
	if parentID != nil {
		parentDelta = 0
	}
	if err := s.ledger.ApplyDelta(ctx, blog.ID, FieldParentComments, parentDelta); err != nil {
		s.log.Error("add comment: parent counter failed", "blog", blog.ID.Hex(), "error", err)
		return models.Comment{}, err
	}

	if parentID != nil {
		err = s.notifications.Emit(ctx, models.NotificationReply, blog.ID, parent.CommentedBy, actorID, &comment.ID)
	} else {
		err = s.notifications.Emit(ctx, models.NotificationComment, blog.ID, blog.Author, actorID, &comment.ID)
	}
	if err != nil {
		// counters already moved; tolerated as notification drift
		s.log.Error("add comment: notification failed", "comment", comment.ID.Hex(), "error", err)
		return models.Comment{}, err
	}

	return comment, nil
}

// DeleteComment soft-deletes a comment the actor owns. The two comment
// kinds take distinct paths: a reply is also detached from its parent's
// children, while a top-level delete deliberately leaves
// total_parent_comments untouched even though creation incremented it.
func (s *EngagementService) DeleteComment(ctx context.Context, commentID, actorID primitive.ObjectID) error {
	comment, err := s.comments.Get(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.DeletedAt != nil {
		return ErrNotFound
	}
	if comment.CommentedBy != actorID {
		return fmt.Errorf("%w: only the author can delete a comment", ErrAuthorization)
	}

	if err := s.comments.SoftDelete(ctx, commentID); err != nil {
		return err
	}

	if comment.Parent != nil {
		if err := s.comments.UnlinkChild(ctx, *comment.Parent, commentID); err != nil {
			s.log.Error("delete comment: unlink failed", "comment", commentID.Hex(), "error", err)
			return err
		}
	}

	if err := s.ledger.ApplyDelta(ctx, comment.BlogID, FieldComments, -1); err != nil {
		s.log.Error("delete comment: counter failed", "blog", comment.BlogID.Hex(), "error", err)
		return err
	}
	return nil
}

// ToggleLike flips the actor's membership in the blog's liked_by set. The
// membership read at call time is authoritative; the client's claimed state
// only widens the unlike branch, mirroring the self-correcting behavior the
// frontend depends on. Two concurrent likes by the same actor can still
// double-increment the counter while $addToSet absorbs the duplicate; that
// known drift is documented, not fixed here.
func (s *EngagementService) ToggleLike(ctx context.Context, blogID, actorID primitive.ObjectID, clientClaimsLiked bool) (bool, error) {
	blog, err := s.blogs.GetByID(ctx, blogID)
	if err != nil {
		return false, err
	}

	isLiked := false
	for _, id := range blog.LikedBy {
		if id == actorID {
			isLiked = true
			break
		}
	}

	if clientClaimsLiked || isLiked {
		if err := s.blogs.Unlike(ctx, blog.ID, actorID); err != nil {
			return false, err
		}
		return false, nil
	}

	if err := s.blogs.Like(ctx, blog.ID, actorID); err != nil {
		return false, err
	}
	if err := s.notifications.Emit(ctx, models.NotificationLike, blog.ID, blog.Author, actorID, nil); err != nil {
		s.log.Error("like: notification failed", "blog", blog.ID.Hex(), "error", err)
		return true, err
	}
	return true, nil
}

// IsLikedBy reports the actor's current membership in liked_by.
func (s *EngagementService) IsLikedBy(ctx context.Context, blogID, userID primitive.ObjectID) (bool, error) {
	blog, err := s.blogs.GetByID(ctx, blogID)
	if err != nil {
		return false, err
	}
	for _, id := range blog.LikedBy {
		if id == userID {
			return true, nil
		}
	}
	return false, nil
}

// RecordRead counts one read. Called once per non-edit blog fetch.
func (s *EngagementService) RecordRead(ctx context.Context, blogID primitive.ObjectID) error {
	return s.ledger.ApplyDelta(ctx, blogID, FieldReads, 1)
}
