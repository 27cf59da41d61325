package seed

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"taskoo-project/backend/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/exp/rand"
)

//go:embed static.json
var staticJSON []byte

const emailDomain = "@taskoo.com"

type FixedAccount struct {
	Email     string  `json:"email"`
	Password  string  `json:"password"`
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Avatar    *string `json:"avatar"`
}

// Static is the reference data every seeded database starts with.
type Static struct {
	Departments []models.StaticEntry `json:"departments"`
	Positions   []models.StaticEntry `json:"positions"`
	Roles       []models.StaticEntry `json:"roles"`
	Status      []models.StaticEntry `json:"status"`
	Accounts    []FixedAccount       `json:"account"`
}

// LoadStatic parses the embedded reference data.
func LoadStatic() (*Static, error) {
	return ParseStatic(staticJSON)
}

func ParseStatic(data []byte) (*Static, error) {
	var s Static
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse static data: %w", err)
	}
	if len(s.Departments) == 0 {
		return nil, fmt.Errorf("static data has no departments")
	}
	if len(s.Positions) < 2 || s.Positions[0].ID != models.ManagerPositionID {
		return nil, fmt.Errorf("static positions must start with the manager position %s and have at least one other", models.ManagerPositionID)
	}
	if len(s.memberRoles()) == 0 {
		return nil, fmt.Errorf("static data has no roles besides %s", models.ManagerRoleName)
	}
	return &s, nil
}

// Collection returns the entries seeded into the named reference collection.
func (s *Static) Collection(name string) []models.StaticEntry {
	switch name {
	case models.CollectionDepartments:
		return s.Departments
	case models.CollectionPositions:
		return s.Positions
	case models.CollectionRoles:
		return s.Roles
	case models.CollectionStatus:
		return s.Status
	}
	return nil
}

func (s *Static) memberRoles() []models.Role {
	roles := make([]models.Role, 0, len(s.Roles))
	for _, r := range s.Roles {
		if r.ID != models.ManagerRoleID {
			roles = append(roles, models.Role{ID: r.ID, Name: r.Name})
		}
	}
	return roles
}

// PlannedTask is a task together with the bucket of the account creating it.
type PlannedTask struct {
	Task   *models.Task
	Bucket primitive.ObjectID
}

// Plan is everything a seed run writes, in insertion order.
type Plan struct {
	Static   map[string][]models.StaticEntry
	Accounts []*models.Account
	Buckets  []*models.Bucket
	Projects []*models.Project
	Tasks    []PlannedTask
}

// Generator builds plans from a reproducible random source.
type Generator struct {
	static *Static
	rng    *rand.Rand
	now    func() time.Time
}

// NewGenerator seeds the random source with seed, or with the clock when seed is zero.
func NewGenerator(static *Static, seed uint64) *Generator {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &Generator{static: static, rng: rand.New(rand.NewSource(seed)), now: time.Now}
}

func (g *Generator) Plan() (*Plan, error) {
	plan := &Plan{Static: make(map[string][]models.StaticEntry, len(models.StaticCollections))}
	for _, name := range models.StaticCollections {
		entries := make([]models.StaticEntry, 0, len(g.static.Collection(name)))
		for _, e := range g.static.Collection(name) {
			entry, err := models.NewStaticEntry(e)
			if err != nil {
				return nil, fmt.Errorf("invalid %s entry %q: %w", name, e.Name, err)
			}
			entries = append(entries, *entry)
		}
		plan.Static[name] = entries
	}

	accounts, err := g.accounts()
	if err != nil {
		return nil, err
	}
	plan.Accounts = accounts
	for _, a := range accounts {
		bucket, err := models.NewBucket(a.ID)
		if err != nil {
			return nil, err
		}
		bucket.ID = primitive.NewObjectID()
		a.Bucket = bucket.ID
		plan.Buckets = append(plan.Buckets, bucket)
	}

	if plan.Projects, err = g.projects(accounts); err != nil {
		return nil, err
	}
	if plan.Tasks, err = g.tasks(plan.Projects, accounts); err != nil {
		return nil, err
	}
	return plan, nil
}

// accounts returns the fixed accounts followed by 10 to 20 random accounts per department.
// Every fifth random account is a manager.
func (g *Generator) accounts() ([]*models.Account, error) {
	departments := g.static.Departments
	positions := g.static.Positions

	var accounts []*models.Account
	for _, fixed := range g.static.Accounts {
		a, err := models.NewAccount(models.AccountInput{
			Email:      fixed.Email,
			Password:   fixed.Password,
			FirstName:  fixed.FirstName,
			LastName:   fixed.LastName,
			Department: departments[0].ID,
			Position:   positions[0].ID,
			Avatar:     fixed.Avatar,
		})
		if err != nil {
			return nil, fmt.Errorf("invalid fixed account %s: %w", fixed.Email, err)
		}
		accounts = append(accounts, a)
	}

	sameName := map[string]int{}
	index := 0
	for _, department := range departments {
		count := between(g.rng, 10, 20)
		for i := 0; i < count; i++ {
			first := pick(g.rng, firstNames)
			last := pick(g.rng, lastNames)

			local := strings.ToLower(first)
			if n := sameName[first]; n > 0 {
				local = fmt.Sprintf("%s%d", local, n)
			}
			sameName[first]++

			position := positions[0].ID
			if (index+1)%5 != 0 {
				position = positions[1+g.rng.Intn(len(positions)-1)].ID
			}
			index++

			a, err := models.NewAccount(models.AccountInput{
				Email:      local + emailDomain,
				Password:   strings.ToLower(first[:1]+last[:1]) + "123456",
				FirstName:  first,
				LastName:   last,
				Department: department.ID,
				Position:   position,
			})
			if err != nil {
				return nil, err
			}
			accounts = append(accounts, a)
		}
	}

	for _, a := range accounts {
		a.ID = primitive.NewObjectID()
	}
	return accounts, nil
}

// projects gives every manager 20 to 30 projects staffed from non-managers of the same department.
func (g *Generator) projects(accounts []*models.Account) ([]*models.Project, error) {
	byDepartment := map[string][]*models.Account{}
	var managers []*models.Account
	for _, a := range accounts {
		if a.Position == models.ManagerPositionID {
			managers = append(managers, a)
			continue
		}
		byDepartment[a.Department] = append(byDepartment[a.Department], a)
	}
	roles := g.static.memberRoles()

	var projects []*models.Project
	for _, manager := range managers {
		count := between(g.rng, 20, 30)
		for i := 0; i < count; i++ {
			members := models.MemberList{}
			for _, colleague := range g.colleagues(byDepartment[manager.Department]) {
				members = append(members, models.Member{ID: colleague.ID, Role: roles[g.rng.Intn(len(roles))]})
			}

			p, err := models.NewProject(models.ProjectInput{
				Name:        title(g.rng, 2, 5),
				Description: sentence(g.rng),
				Members:     models.WithCreator(members, manager.ID),
			})
			if err != nil {
				return nil, err
			}
			p.ID = primitive.NewObjectID()
			projects = append(projects, p)
		}
	}
	return projects, nil
}

// colleagues picks between 2 and half of pool without repetition.
func (g *Generator) colleagues(pool []*models.Account) []*models.Account {
	list := append([]*models.Account(nil), pool...)
	count := between(g.rng, 2, len(list)/2)
	if count > len(list) {
		count = len(list)
	}
	for i := 0; i < count; i++ {
		j := i + g.rng.Intn(len(list)-i)
		list[i], list[j] = list[j], list[i]
	}
	return list[:count]
}

// tasks adds 1 to 10 tasks to about half of the projects, assigned to the project manager.
func (g *Generator) tasks(projects []*models.Project, accounts []*models.Account) ([]PlannedTask, error) {
	buckets := make(map[primitive.ObjectID]primitive.ObjectID, len(accounts))
	for _, a := range accounts {
		buckets[a.ID] = a.Bucket
	}
	due := models.Millis(g.now().Add(24 * time.Hour).UnixMilli())

	var tasks []PlannedTask
	for _, p := range projects {
		if g.rng.Intn(2) == 0 {
			continue
		}
		manager := p.Members[0]
		count := between(g.rng, 1, 10)
		for i := 0; i < count; i++ {
			t, err := models.NewTask(models.TaskInput{
				Name:        title(g.rng, 2, 5),
				Description: sentence(g.rng),
				Project:     p.ID.Hex(),
				Members:     models.MemberList{manager},
				DueTime:     due,
			})
			if err != nil {
				return nil, err
			}
			t.ID = primitive.NewObjectID()
			tasks = append(tasks, PlannedTask{Task: t, Bucket: buckets[manager.ID]})
		}
	}
	return tasks, nil
}
