package service

import (
	"context"
	"testing"

	"backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCommentService() (*commentService, *fakeCommentRepo, *fakeTimelineRepo, *fakeRequestRepo) {
	comments := newFakeCommentRepo()
	timeline := newFakeTimelineRepo()
	requests := newFakeRequestRepo()

	svc := NewCommentService(comments, timeline, requests, passthroughTxManager{}).(*commentService)
	return svc, comments, timeline, requests
}

func TestAddCommentRecordsTimelineEvent(t *testing.T) {
	svc, comments, timeline, requests := newTestCommentService()
	eng := &testEngine{requests: requests}
	req := eng.seedRequest(model.StageTechnicalReview, testNow)

	comment, err := svc.AddComment(context.Background(), req.ID.String(), testActor(), AddCommentDTO{
		CommentText:    "Please attach the revised budget breakdown",
		MentionedUsers: []string{"user-7"},
		IsInternal:     true,
	})
	require.NoError(t, err)

	assert.Equal(t, req.ID, comment.RequestID)
	assert.Equal(t, "user-1", comment.UserID)
	assert.Equal(t, "Aisha Al Mansouri", comment.UserName)
	assert.True(t, comment.IsInternal)
	assert.Equal(t, []string{"user-7"}, comment.MentionedUsers)

	require.Len(t, comments.comments, 1)

	events := timeline.forRequest(req.ID)
	require.Len(t, events, 1)
	assert.Equal(t, model.EventCommentAdded, events[0].EventType)
	assert.Equal(t, "Please attach the revised budget breakdown", events[0].Description)
	assert.Equal(t, string(model.StageTechnicalReview), events[0].Metadata[model.MetadataKeyStage],
		"event carries the stage the request was in when commented")
}

func TestAddCommentRejectsEmptyText(t *testing.T) {
	svc, comments, timeline, requests := newTestCommentService()
	eng := &testEngine{requests: requests}
	req := eng.seedRequest(model.StageInitialReview, testNow)

	_, err := svc.AddComment(context.Background(), req.ID.String(), testActor(), AddCommentDTO{CommentText: "   "})

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "comment_text", valErr.Field)
	assert.Empty(t, comments.comments)
	assert.Empty(t, timeline.events)
}

func TestAddCommentMissingRequest(t *testing.T) {
	svc, comments, _, _ := newTestCommentService()

	_, err := svc.AddComment(context.Background(), "9b1f30ad-6f3e-4a5c-a5ff-d9f2f0a7f001", testActor(), AddCommentDTO{
		CommentText: "orphan",
	})

	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Empty(t, comments.comments)
}

func TestGetCommentsByRequestID(t *testing.T) {
	svc, _, _, requests := newTestCommentService()
	eng := &testEngine{requests: requests}
	req := eng.seedRequest(model.StageInitialReview, testNow)
	other := eng.seedRequest(model.StageInitialReview, testNow)

	ctx := context.Background()
	_, err := svc.AddComment(ctx, req.ID.String(), testActor(), AddCommentDTO{CommentText: "first"})
	require.NoError(t, err)
	_, err = svc.AddComment(ctx, req.ID.String(), testActor(), AddCommentDTO{CommentText: "second"})
	require.NoError(t, err)
	_, err = svc.AddComment(ctx, other.ID.String(), testActor(), AddCommentDTO{CommentText: "elsewhere"})
	require.NoError(t, err)

	listed, err := svc.GetCommentsByRequestID(ctx, req.ID.String())
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, "first", listed[0].CommentText)
	assert.Equal(t, "second", listed[1].CommentText)
}
