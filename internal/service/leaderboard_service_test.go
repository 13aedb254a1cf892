package service

import (
	"lms_backend/internal/model"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeightedScore(t *testing.T) {
	// 2 模块完成，60 分钟，8/10 正确：2*40 + (1/60)*30*1000 + 0.8*30 = 604
	score := WeightedScore(2, 60, 8, 10)
	assert.InDelta(t, 604.0, score, 0.01)

	// 耗时为 0 按 1 分钟计，避免除零
	zeroTime := WeightedScore(0, 0, 0, 0)
	assert.InDelta(t, 30000.0, zeroTime, 0.01)

	// 无答题时正确率按 0 计
	noAnswers := WeightedScore(1, 10, 0, 0)
	assert.InDelta(t, 40.0+3000.0, noAnswers, 0.01)
}

func TestTeamScore(t *testing.T) {
	// 平均完成率 50，总分 200，4 人：50*0.7 + 50*0.3 = 50
	assert.InDelta(t, 50.0, TeamScore(50, 200, 4), 0.01)
	assert.Equal(t, 0.0, TeamScore(80, 100, 0))
}

func seedProgressRow(f *fixture, userID, courseID uint, modules, minutes, correct, total, points int) {
	f.progressRepo.Upsert(&model.UserProgress{
		UserID:               userID,
		CourseID:             courseID,
		ModulesCompleted:     modules,
		TotalModules:         3,
		TotalPointsEarned:    points,
		CorrectAnswers:       correct,
		TotalAnswers:         total,
		CompletionPercentage: modules * 100 / 3,
		TimeSpentMinutes:     minutes,
		LastActivityAt:       time.Now(),
	})
}

func TestRecalculateIndividualRanking(t *testing.T) {
	f := newFixture()
	course, _, _ := f.seedCourse(t)

	alice := &model.User{Name: "Alice", Email: "alice@test.io", Password: "x", Role: model.Student}
	bob := &model.User{Name: "Bob", Email: "bob@test.io", Password: "x", Role: model.Student}
	carol := &model.User{Name: "Carol", Email: "carol@test.io", Password: "x", Role: model.Student}
	for _, u := range []*model.User{alice, bob, carol} {
		require.NoError(t, f.userRepo.Create(u))
	}

	// Alice 领先，Bob 和 Carol 输入完全相同（并列，按 ID 升序定序）
	seedProgressRow(f, alice.ID, course.ID, 3, 30, 9, 10, 50)
	seedProgressRow(f, bob.ID, course.ID, 1, 60, 5, 10, 20)
	seedProgressRow(f, carol.ID, course.ID, 1, 60, 5, 10, 20)

	require.NoError(t, f.leaderboard.RecalculateIndividual(course.ID))

	entries, err := f.leaderboard.GetIndividual(course.ID, 0)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, alice.ID, entries[0].UserID)
	assert.Equal(t, "Alice", entries[0].UserName)
	assert.Equal(t, 1, entries[0].Rank)

	assert.Equal(t, bob.ID, entries[1].UserID)
	assert.Equal(t, 2, entries[1].Rank)
	assert.Equal(t, carol.ID, entries[2].UserID)
	assert.Equal(t, 3, entries[2].Rank)

	// 并列时分数相同
	assert.Equal(t, entries[1].WeightedScore, entries[2].WeightedScore)
}

func TestRecalculateIndividualReplacesSnapshot(t *testing.T) {
	f := newFixture()
	course, _, _ := f.seedCourse(t)

	seedProgressRow(f, 1, course.ID, 1, 30, 5, 10, 20)

	require.NoError(t, f.leaderboard.RecalculateIndividual(course.ID))
	first, err := f.leaderboard.GetIndividual(course.ID, 0)
	require.NoError(t, err)
	require.Len(t, first, 1)

	// 数据变化后重算，快照整体替换
	seedProgressRow(f, 1, course.ID, 3, 30, 9, 10, 50)
	require.NoError(t, f.leaderboard.RecalculateIndividual(course.ID))

	second, err := f.leaderboard.GetIndividual(course.ID, 0)
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Greater(t, second[0].WeightedScore, first[0].WeightedScore)
}

func TestRecalculateAllCourses(t *testing.T) {
	f := newFixture()
	courseA, _, _ := f.seedCourse(t)
	courseB := &model.Course{Title: "进阶"}
	require.NoError(t, f.courseRepo.CreateCourse(courseB))

	seedProgressRow(f, 1, courseA.ID, 1, 30, 5, 10, 20)
	seedProgressRow(f, 1, courseB.ID, 2, 40, 6, 10, 30)

	// courseID 为 0 重算全部课程
	require.NoError(t, f.leaderboard.RecalculateIndividual(0))

	a, err := f.leaderboard.GetIndividual(courseA.ID, 0)
	require.NoError(t, err)
	assert.Len(t, a, 1)

	b, err := f.leaderboard.GetIndividual(courseB.ID, 0)
	require.NoError(t, err)
	assert.Len(t, b, 1)
}

func TestRecalculateTeamRanking(t *testing.T) {
	f := newFixture()
	course, _, _ := f.seedCourse(t)

	alice := &model.User{Name: "Alice", Email: "a@test.io", Password: "x"}
	bob := &model.User{Name: "Bob", Email: "b@test.io", Password: "x"}
	carol := &model.User{Name: "Carol", Email: "c@test.io", Password: "x"}
	dave := &model.User{Name: "Dave", Email: "d@test.io", Password: "x"}
	for _, u := range []*model.User{alice, bob, carol, dave} {
		require.NoError(t, f.userRepo.Create(u))
	}

	redTeam := &model.Team{Name: "红队"}
	blueTeam := &model.Team{Name: "蓝队"}
	require.NoError(t, f.teamRepo.Create(redTeam))
	require.NoError(t, f.teamRepo.Create(blueTeam))

	require.NoError(t, f.teamRepo.AddMember(redTeam.ID, alice.ID))
	require.NoError(t, f.teamRepo.AddMember(redTeam.ID, bob.ID))
	require.NoError(t, f.teamRepo.AddMember(blueTeam.ID, carol.ID))
	require.NoError(t, f.teamRepo.AddMember(blueTeam.ID, dave.ID))

	seedProgressRow(f, alice.ID, course.ID, 3, 30, 9, 10, 50)
	seedProgressRow(f, bob.ID, course.ID, 3, 40, 8, 10, 40)
	seedProgressRow(f, carol.ID, course.ID, 1, 60, 5, 10, 20)
	// Dave 在本课程没有进度行，不计入蓝队成员数

	require.NoError(t, f.leaderboard.RecalculateTeam(course.ID))

	entries, err := f.leaderboard.GetTeam(course.ID, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, redTeam.ID, entries[0].TeamID)
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, 2, entries[0].TotalMembers)
	assert.Equal(t, 90, entries[0].TotalPoints)
	assert.InDelta(t, 100.0, entries[0].AverageCompletionRate, 0.01)

	assert.Equal(t, blueTeam.ID, entries[1].TeamID)
	assert.Equal(t, 1, entries[1].TotalMembers)
}

func TestRecalculateTeamSkipsEmptyTeams(t *testing.T) {
	f := newFixture()
	course, _, _ := f.seedCourse(t)

	empty := &model.Team{Name: "空队"}
	require.NoError(t, f.teamRepo.Create(empty))

	require.NoError(t, f.leaderboard.RecalculateTeam(course.ID))

	entries, err := f.leaderboard.GetTeam(course.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestGetIndividualLimit(t *testing.T) {
	f := newFixture()
	course, _, _ := f.seedCourse(t)

	for i := 1; i <= 5; i++ {
		seedProgressRow(f, uint(i), course.ID, i%4, 30+i, i, 10, i*10)
	}
	require.NoError(t, f.leaderboard.RecalculateIndividual(course.ID))

	entries, err := f.leaderboard.GetIndividual(course.ID, 2)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
	assert.Equal(t, 1, entries[0].Rank)
}
