package service

import (
	"lms_backend/internal/model"
	"lms_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartAttempt(t *testing.T) {
	f := newFixture()
	_, _, quiz := f.seedCourse(t)

	result, err := f.attempts.StartAttempt(quiz.ID, 1)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Attempt.AttemptNumber)
	assert.Equal(t, model.AttemptInProgress, result.Attempt.Status)
	assert.Equal(t, 2, result.RemainingAttempts)
	require.Len(t, result.Questions, 3)
	// 学员视图不携带标准答案字段
	assert.Equal(t, []string{"thread", "goroutine", "process"}, result.Questions[0].Options)
}

func TestStartAttemptUnknownQuiz(t *testing.T) {
	f := newFixture()

	_, err := f.attempts.StartAttempt(999, 1)
	assert.ErrorIs(t, err, util.ErrNotFound)
}

func TestStartAttemptCapEnforced(t *testing.T) {
	f := newFixture()
	_, modules, _ := f.seedCourse(t)

	quiz := &model.Quiz{
		ModuleID:        modules[1].ID,
		Title:           "单次测验",
		PassingScore:    70,
		AttemptsAllowed: 1,
		Questions: []model.Question{
			{Text: "q", Type: model.ShortAnswer, CorrectAnswer: `"x"`, Points: 1, Order: 1},
		},
	}
	require.NoError(t, f.courseRepo.CreateQuiz(quiz))

	first, err := f.attempts.StartAttempt(quiz.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, first.RemainingAttempts)

	_, err = f.attempts.StartAttempt(quiz.ID, 1)
	assert.ErrorIs(t, err, util.ErrMaxAttemptsExceeded)

	// 其他用户不受影响
	_, err = f.attempts.StartAttempt(quiz.ID, 2)
	assert.NoError(t, err)
}

func TestSubmitAttemptScoring(t *testing.T) {
	f := newFixture()
	course, _, quiz := f.seedCourse(t)

	started, err := f.attempts.StartAttempt(quiz.ID, 1)
	require.NoError(t, err)

	q := quiz.Questions
	answers := []SubmittedAnswer{
		{QuestionID: q[0].ID, Answer: "goroutine"},  // 2 分，正确
		{QuestionID: q[1].ID, Answer: "true"},       // 1 分，错误
		{QuestionID: q[2].ID, Answer: " PACKAGE "},  // 2 分，正确（忽略大小写和空白）
		{QuestionID: 9999, Answer: "whatever"},      // 未知题目，静默跳过
	}

	result, err := f.attempts.SubmitAttempt(started.Attempt.ID, 1, answers)
	require.NoError(t, err)

	// 4/5 分 = 80
	assert.Equal(t, 80, result.Attempt.Score)
	assert.True(t, result.Attempt.Passed)
	assert.Equal(t, model.AttemptCompleted, result.Attempt.Status)
	require.NotNil(t, result.Attempt.CompletedAt)

	// 未知题目不产生答题记录，结果按题目 ID 升序
	require.Len(t, result.Responses, 3)
	for i := 1; i < len(result.Responses); i++ {
		assert.Less(t, result.Responses[i-1].QuestionID, result.Responses[i].QuestionID)
	}

	// 提交驱动进度聚合
	progress, err := f.progress.GetCourseProgress(1, course.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, progress.TestsAttempted)
	assert.Equal(t, 1, progress.TestsPassed)
	assert.Equal(t, 4, progress.TotalPointsEarned)
	assert.Equal(t, 2, progress.CorrectAnswers)
	assert.Equal(t, 3, progress.TotalAnswers)
}

func TestSubmitAttemptDuplicateQuestionLastWins(t *testing.T) {
	f := newFixture()
	_, _, quiz := f.seedCourse(t)

	started, err := f.attempts.StartAttempt(quiz.ID, 1)
	require.NoError(t, err)

	// 同一题目提交两次，以最后一次为准，且只产生一条答题记录
	q := quiz.Questions
	answers := []SubmittedAnswer{
		{QuestionID: q[0].ID, Answer: "thread"},
		{QuestionID: q[0].ID, Answer: "goroutine"},
	}

	result, err := f.attempts.SubmitAttempt(started.Attempt.ID, 1, answers)
	require.NoError(t, err)

	require.Len(t, result.Responses, 1)
	assert.Equal(t, q[0].ID, result.Responses[0].QuestionID)
	assert.Equal(t, "goroutine", result.Responses[0].Answer)
	assert.True(t, result.Responses[0].IsCorrect)

	// 重复提交不抬高可得分：2/2 = 100
	assert.Equal(t, 100, result.Attempt.Score)
}

func TestSubmitAttemptQuizRemoved(t *testing.T) {
	f := newFixture()
	_, _, quiz := f.seedCourse(t)

	started, err := f.attempts.StartAttempt(quiz.ID, 1)
	require.NoError(t, err)

	// 测验在开始后被删除，提交应报 404 而不是内部错误
	delete(f.store.quizzes, quiz.ID)

	_, err = f.attempts.SubmitAttempt(started.Attempt.ID, 1, nil)
	assert.ErrorIs(t, err, util.ErrNotFound)
}

func TestSubmitAttemptFailingScore(t *testing.T) {
	f := newFixture()
	_, _, quiz := f.seedCourse(t)

	started, err := f.attempts.StartAttempt(quiz.ID, 1)
	require.NoError(t, err)

	answers := []SubmittedAnswer{
		{QuestionID: quiz.Questions[0].ID, Answer: "thread"},
	}
	result, err := f.attempts.SubmitAttempt(started.Attempt.ID, 1, answers)
	require.NoError(t, err)

	assert.Equal(t, 0, result.Attempt.Score)
	assert.False(t, result.Attempt.Passed)
}

func TestSubmitAttemptNoScorableAnswers(t *testing.T) {
	f := newFixture()
	_, _, quiz := f.seedCourse(t)

	started, err := f.attempts.StartAttempt(quiz.ID, 1)
	require.NoError(t, err)

	// 全部是未知题目 ID：可得分为 0，总分记 0
	result, err := f.attempts.SubmitAttempt(started.Attempt.ID, 1, []SubmittedAnswer{
		{QuestionID: 777, Answer: "a"},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Attempt.Score)
	assert.False(t, result.Attempt.Passed)
	assert.Empty(t, result.Responses)
}

func TestSubmitAttemptOwnership(t *testing.T) {
	f := newFixture()
	_, _, quiz := f.seedCourse(t)

	started, err := f.attempts.StartAttempt(quiz.ID, 1)
	require.NoError(t, err)

	_, err = f.attempts.SubmitAttempt(started.Attempt.ID, 2, nil)
	assert.ErrorIs(t, err, util.ErrAccessDenied)
}

func TestSubmitAttemptTwice(t *testing.T) {
	f := newFixture()
	_, _, quiz := f.seedCourse(t)

	started, err := f.attempts.StartAttempt(quiz.ID, 1)
	require.NoError(t, err)

	_, err = f.attempts.SubmitAttempt(started.Attempt.ID, 1, nil)
	require.NoError(t, err)

	_, err = f.attempts.SubmitAttempt(started.Attempt.ID, 1, nil)
	assert.ErrorIs(t, err, util.ErrInvalidState)
}

func TestCheckStatus(t *testing.T) {
	f := newFixture()
	_, _, quiz := f.seedCourse(t)

	status, err := f.attempts.CheckStatus(quiz.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, status.AttemptsUsed)
	assert.Equal(t, 3, status.RemainingAttempts)
	assert.True(t, status.CanAttempt)

	for i := 0; i < 3; i++ {
		_, err := f.attempts.StartAttempt(quiz.ID, 1)
		require.NoError(t, err)
	}

	status, err = f.attempts.CheckStatus(quiz.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, status.AttemptsUsed)
	assert.Equal(t, 0, status.RemainingAttempts)
	assert.False(t, status.CanAttempt)
}

func TestGetAttemptResult(t *testing.T) {
	f := newFixture()
	_, _, quiz := f.seedCourse(t)

	started, err := f.attempts.StartAttempt(quiz.ID, 1)
	require.NoError(t, err)

	// 进行中的尝试不可查询结果
	_, err = f.attempts.GetAttemptResult(started.Attempt.ID, 1)
	assert.ErrorIs(t, err, util.ErrInvalidState)

	_, err = f.attempts.SubmitAttempt(started.Attempt.ID, 1, []SubmittedAnswer{
		{QuestionID: quiz.Questions[0].ID, Answer: "goroutine"},
	})
	require.NoError(t, err)

	result, err := f.attempts.GetAttemptResult(started.Attempt.ID, 1)
	require.NoError(t, err)
	assert.Len(t, result.Responses, 1)
	assert.True(t, result.Responses[0].IsCorrect)

	// 非本人不可查询
	_, err = f.attempts.GetAttemptResult(started.Attempt.ID, 2)
	assert.ErrorIs(t, err, util.ErrAccessDenied)
}
