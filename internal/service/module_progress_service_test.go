package service

import (
	"lms_backend/internal/model"
	"lms_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeUnlocksFirstModule(t *testing.T) {
	f := newFixture()
	course, modules, _ := f.seedCourse(t)

	require.NoError(t, f.moduleProgress.Initialize(1, course.ID))

	rows, err := f.moduleRepo.ListByUserAndCourse(1, course.ID)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, modules[0].ID, rows[0].ModuleID)
	assert.False(t, rows[0].IsLocked)
	assert.True(t, rows[1].IsLocked)
	assert.True(t, rows[2].IsLocked)
}

func TestInitializeIdempotent(t *testing.T) {
	f := newFixture()
	course, modules, _ := f.seedCourse(t)

	require.NoError(t, f.moduleProgress.Initialize(1, course.ID))

	// 产生一些进度后重复初始化，不得覆盖
	_, err := f.moduleProgress.UpdateProgress(1, modules[0].ID, 50, 10)
	require.NoError(t, err)

	require.NoError(t, f.moduleProgress.Initialize(1, course.ID))

	progress, err := f.moduleRepo.GetByUserAndModule(1, modules[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 50, progress.CompletionPercentage)
}

func TestInitializeEmptyCourse(t *testing.T) {
	f := newFixture()
	course := &model.Course{Title: "空课程"}
	require.NoError(t, f.courseRepo.CreateCourse(course))

	err := f.moduleProgress.Initialize(1, course.ID)
	assert.ErrorIs(t, err, util.ErrNotFound)
}

func TestCheckAccessLazyInit(t *testing.T) {
	f := newFixture()
	_, modules, _ := f.seedCourse(t)

	// 没有任何进度行时首次访问触发初始化
	access, err := f.moduleProgress.CheckAccess(1, modules[0].ID)
	require.NoError(t, err)
	assert.True(t, access.Allowed)

	access, err = f.moduleProgress.CheckAccess(1, modules[1].ID)
	require.NoError(t, err)
	assert.False(t, access.Allowed)
	assert.Equal(t, "previous module must be completed first", access.Reason)
}

func TestUpdateProgressLockedModule(t *testing.T) {
	f := newFixture()
	_, modules, _ := f.seedCourse(t)

	_, err := f.moduleProgress.UpdateProgress(1, modules[1].ID, 10, 0)
	assert.ErrorIs(t, err, util.ErrAccessDenied)
}

func TestUpdateProgressValidation(t *testing.T) {
	f := newFixture()
	_, modules, _ := f.seedCourse(t)

	_, err := f.moduleProgress.UpdateProgress(1, modules[0].ID, 101, 0)
	assert.ErrorIs(t, err, util.ErrValidation)

	_, err = f.moduleProgress.UpdateProgress(1, modules[0].ID, -1, 0)
	assert.ErrorIs(t, err, util.ErrValidation)

	_, err = f.moduleProgress.UpdateProgress(1, modules[0].ID, 10, -5)
	assert.ErrorIs(t, err, util.ErrValidation)
}

func TestUpdateProgressMonotonic(t *testing.T) {
	f := newFixture()
	_, modules, _ := f.seedCourse(t)

	progress, err := f.moduleProgress.UpdateProgress(1, modules[0].ID, 60, 5)
	require.NoError(t, err)
	assert.Equal(t, 60, progress.CompletionPercentage)
	assert.Equal(t, model.ProgressInProgress, progress.Status)
	require.NotNil(t, progress.StartedAt)

	// 回报更小的完成度不回退，但耗时继续累加
	progress, err = f.moduleProgress.UpdateProgress(1, modules[0].ID, 30, 5)
	require.NoError(t, err)
	assert.Equal(t, 60, progress.CompletionPercentage)
	assert.Equal(t, 10, progress.TimeSpentMinutes)
}

func TestCompleteModuleUnlocksNext(t *testing.T) {
	f := newFixture()
	course, modules, _ := f.seedCourse(t)

	progress, err := f.moduleProgress.UpdateProgress(1, modules[0].ID, 100, 15)
	require.NoError(t, err)
	assert.Equal(t, model.ProgressCompleted, progress.Status)
	require.NotNil(t, progress.CompletedAt)

	next, err := f.moduleRepo.GetByUserAndModule(1, modules[1].ID)
	require.NoError(t, err)
	assert.False(t, next.IsLocked)

	// 第三个模块仍然锁定
	third, err := f.moduleRepo.GetByUserAndModule(1, modules[2].ID)
	require.NoError(t, err)
	assert.True(t, third.IsLocked)

	// 课程汇总：1/3 完成，向下取整 33
	summary, err := f.progress.GetCourseProgress(1, course.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.ModulesCompleted)
	assert.Equal(t, 33, summary.CompletionPercentage)
	assert.Equal(t, model.ProgressInProgress, summary.Status)
	assert.Equal(t, 15, summary.TimeSpentMinutes)
}

func TestCompleteLastModule(t *testing.T) {
	f := newFixture()
	course, modules, _ := f.seedCourse(t)

	for _, m := range modules {
		_, err := f.moduleProgress.MarkCompleted(1, m.ID, 0)
		require.NoError(t, err)
	}

	summary, err := f.progress.GetCourseProgress(1, course.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.ModulesCompleted)
	assert.Equal(t, 100, summary.CompletionPercentage)
	assert.Equal(t, model.ProgressCompleted, summary.Status)
}

func TestCompletedModuleStaysCompleted(t *testing.T) {
	f := newFixture()
	_, modules, _ := f.seedCourse(t)

	_, err := f.moduleProgress.MarkCompleted(1, modules[0].ID, 0)
	require.NoError(t, err)

	// 完成后继续上报进度不改变状态
	progress, err := f.moduleProgress.UpdateProgress(1, modules[0].ID, 50, 5)
	require.NoError(t, err)
	assert.Equal(t, model.ProgressCompleted, progress.Status)
	assert.Equal(t, 100, progress.CompletionPercentage)
}

func TestMarkCompletedReportsTime(t *testing.T) {
	f := newFixture()
	course, modules, _ := f.seedCourse(t)

	// 完成时一并上报最后一次学习的耗时
	progress, err := f.moduleProgress.MarkCompleted(1, modules[0].ID, 25)
	require.NoError(t, err)
	assert.Equal(t, model.ProgressCompleted, progress.Status)
	assert.Equal(t, 25, progress.TimeSpentMinutes)

	summary, err := f.progress.GetCourseProgress(1, course.ID)
	require.NoError(t, err)
	assert.Equal(t, 25, summary.TimeSpentMinutes)
}

func TestListCourseProgress(t *testing.T) {
	f := newFixture()
	course, modules, _ := f.seedCourse(t)

	rows, err := f.moduleProgress.ListCourseProgress(1, course.ID)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	// 按模块顺序返回
	for i, row := range rows {
		assert.Equal(t, modules[i].ID, row.ModuleID)
	}
}
