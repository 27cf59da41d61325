package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

func TestCheckID(t *testing.T) {
	oid := primitive.NewObjectID()

	got, err := CheckID(" "+oid.Hex()+" ", "id")
	require.NoError(t, err)
	assert.Equal(t, oid, got)

	for _, bad := range []string{"", "   ", "123", "zzzzzzzzzzzzzzzzzzzzzzzz", oid.Hex() + "0"} {
		_, err := CheckID(bad, "id")
		assert.Error(t, err, bad)
		assert.True(t, IsValidation(err), bad)
	}
}

func TestParsePage(t *testing.T) {
	p, err := ParsePage("", "")
	require.NoError(t, err)
	assert.Equal(t, Page{Num: 1, Size: 10}, p)

	p, err = ParsePage("3", "25")
	require.NoError(t, err)
	assert.Equal(t, 50, p.Skip())

	for _, c := range [][2]string{{"0", "10"}, {"x", "10"}, {"1", "0"}, {"1", "1000"}, {"-2", ""}} {
		_, err := ParsePage(c[0], c[1])
		assert.True(t, IsValidation(err), c)
	}
}

func TestPaginate(t *testing.T) {
	items := make([]int, 15)
	for i := range items {
		items[i] = i + 1
	}

	assert.Equal(t, []int{6, 7, 8, 9, 10}, Paginate(items, Page{Num: 2, Size: 5}))
	assert.Equal(t, []int{11, 12, 13, 14, 15}, Paginate(items, Page{Num: 2, Size: 10}))
	assert.Equal(t, []int{}, Paginate(items, Page{Num: 4, Size: 10}))
	assert.Len(t, Paginate([]int(nil), Page{Num: 1, Size: 10}), 0)
}

func TestMemberList_UnmarshalJSON(t *testing.T) {
	oid := primitive.NewObjectID()

	var single struct {
		Members MemberList `json:"members"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"members":{"_id":"`+oid.Hex()+`","role":{"_id":"r","name":"Dev"}}}`), &single))
	require.Len(t, single.Members, 1)
	assert.Equal(t, oid, single.Members[0].ID)

	var list struct {
		Members MemberList `json:"members"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"members":[{"_id":"`+oid.Hex()+`"},{"_id":"`+primitive.NewObjectID().Hex()+`"}]}`), &list))
	assert.Len(t, list.Members, 2)

	var absent struct {
		Members MemberList `json:"members"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"members":null}`), &absent))
	assert.Empty(t, absent.Members)
}

func TestNewProject_CreatorIsManager(t *testing.T) {
	creator := primitive.NewObjectID()

	p, err := NewProject(ProjectInput{Name: "  Apollo ", Members: WithCreator(nil, creator)})
	require.NoError(t, err)

	assert.Equal(t, "Apollo", p.Name)
	require.Len(t, p.Members, 1)
	assert.Equal(t, creator, p.Members[0].ID)
	assert.Equal(t, ManagerRole(), p.Members[0].Role)
	assert.Equal(t, StatusPending, p.Status)
	assert.NotNil(t, p.Tasks)
	assert.NotNil(t, p.Attachments)
}

func TestNewProject_DuplicateCreatorKeepsManager(t *testing.T) {
	creator := primitive.NewObjectID()
	other := primitive.NewObjectID()
	dev := Role{ID: "dev", Name: "Developer"}

	p, err := NewProject(ProjectInput{
		Name:    "Apollo",
		Members: WithCreator(MemberList{{ID: creator, Role: dev}, {ID: other, Role: dev}}, creator),
	})
	require.NoError(t, err)

	require.Len(t, p.Members, 2)
	assert.Equal(t, ManagerRoleID, p.Members[0].Role.ID)
	assert.Equal(t, other, p.Members[1].ID)
}

func TestNewProject_Invalid(t *testing.T) {
	creator := primitive.NewObjectID()

	_, err := NewProject(ProjectInput{Name: " ", Members: WithCreator(nil, creator)})
	assert.True(t, IsValidation(err))

	_, err = NewProject(ProjectInput{Name: "x"})
	assert.True(t, IsValidation(err))

	_, err = NewProject(ProjectInput{Name: "x", Members: WithCreator(MemberList{{ID: primitive.NewObjectID()}}, creator)})
	assert.True(t, IsValidation(err), "member without role")

	_, err = NewProject(ProjectInput{Name: "x", Status: "archived", Members: WithCreator(nil, creator)})
	assert.True(t, IsValidation(err))
}

func TestNewTask(t *testing.T) {
	project := primitive.NewObjectID()
	member := primitive.NewObjectID()

	var in TaskInput
	body := `{"name":"Write docs","project":"` + project.Hex() + `","members":{"_id":"` + member.Hex() + `"},"dueTime":"2024-05-01T10:00:00Z"}`
	require.NoError(t, json.Unmarshal([]byte(body), &in))

	task, err := NewTask(in)
	require.NoError(t, err)
	assert.Equal(t, project, task.Project)
	assert.Equal(t, StatusPending, task.Status)
	assert.Equal(t, int64(1714557600000), task.DueTime)
	require.Len(t, task.Members, 1)

	_, err = NewTask(TaskInput{Name: "x", Project: "nope", DueTime: 1})
	assert.True(t, IsValidation(err))

	_, err = NewTask(TaskInput{Name: "x", Project: project.Hex()})
	assert.True(t, IsValidation(err), "missing due time")
}

func TestMillis_UnmarshalJSON(t *testing.T) {
	var m Millis
	require.NoError(t, json.Unmarshal([]byte(`1714557600000`), &m))
	assert.Equal(t, Millis(1714557600000), m)

	require.NoError(t, json.Unmarshal([]byte(`"1714557600000"`), &m))
	assert.Equal(t, Millis(1714557600000), m)

	assert.Error(t, json.Unmarshal([]byte(`"tomorrow"`), &m))
}

func TestFilterTodo_NoHoles(t *testing.T) {
	tasks := []Task{
		{Name: "a", Status: StatusDone},
		{Name: "b", Status: StatusInProgress},
		{Name: "c", Status: StatusDone},
		{Name: "d", Status: StatusPending},
	}

	todo := FilterTodo(tasks)

	require.Len(t, todo, 2)
	assert.Equal(t, "b", todo[0].Name)
	assert.Equal(t, "d", todo[1].Name)
	assert.NotNil(t, FilterTodo(nil))
}

func TestNewAccount(t *testing.T) {
	acc, err := NewAccount(AccountInput{
		Email: " Ada@Taskoo.com ", Password: "al123456", FirstName: "Ada", LastName: "Lovelace",
		Department: "d", Position: ManagerPositionID,
	})
	require.NoError(t, err)
	assert.Equal(t, "ada@taskoo.com", acc.Email)

	require.NoError(t, acc.HashPassword(bcrypt.MinCost))
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(acc.Password), []byte("al123456")))

	out, err := json.Marshal(acc)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "password")

	_, err = NewAccount(AccountInput{Email: "nope", Password: "al123456", FirstName: "A", LastName: "L", Department: "d", Position: "p"})
	assert.True(t, IsValidation(err))

	_, err = NewAccount(AccountInput{Email: "a@b.c", Password: "123", FirstName: "A", LastName: "L", Department: "d", Position: "p"})
	assert.True(t, IsValidation(err))
}

func TestNewBucket(t *testing.T) {
	_, err := NewBucket(primitive.NilObjectID)
	assert.True(t, IsValidation(err))

	b, err := NewBucket(primitive.NewObjectID())
	require.NoError(t, err)
	assert.Empty(t, b.Favorites)
	assert.NotNil(t, b.Favorites)
}

func TestStaticEntry(t *testing.T) {
	e, err := NewStaticEntry(StaticEntry{Name: "Engineering"})
	require.NoError(t, err)
	assert.Len(t, e.ID, 36)

	_, err = NewStaticEntry(StaticEntry{ID: "not-a-uuid", Name: "x"})
	assert.True(t, IsValidation(err))

	pos := StaticEntry{ID: ManagerPositionID, Name: "Manager", Permissions: []string{"projects", "tasks"}}
	assert.True(t, pos.HasPermission("projects"))
	assert.False(t, pos.HasPermission("accounts"))
}

func TestProjectDetail_MembersShadowProject(t *testing.T) {
	d := ProjectDetail{
		Project: Project{Name: "p", Members: []Member{{ID: primitive.NewObjectID()}}},
		Members: []MemberDetail{{FirstName: "Ada"}},
	}
	out, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"firstName":"Ada"`)
}
