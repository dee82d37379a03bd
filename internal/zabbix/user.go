package zabbix

import "context"

// UserGetOptions filters user.get.
type UserGetOptions struct {
	UsernamesOrIDs   []string
	SelectUsergroups bool
	SelectRole       bool
}

// GetUsers returns users matching the options. The username property
// is "alias" before 6.0; the result is normalised so callers only read
// Username.
func (c *Client) GetUsers(ctx context.Context, opts UserGetOptions) ([]User, error) {
	if err := c.ensureVersion(ctx); err != nil {
		return nil, err
	}

	params := map[string]any{
		"output": []string{"userid", c.traits.UserObjectField, "name", "surname", "roleid"},
	}
	applyNameOrIDFilter(params, opts.UsernamesOrIDs, "userids", c.traits.UserObjectField)
	if opts.SelectUsergroups {
		params["selectUsrgrps"] = []string{"usrgrpid", "name", "gui_access", "users_status"}
	}
	if opts.SelectRole {
		params["selectRole"] = []string{"roleid", "name", "type"}
	}

	var users []User
	if err := c.callResult(ctx, "user.get", params, &users); err != nil {
		return nil, wrapCall(err, "failed to get users")
	}

	for i := range users {
		normalizeUser(&users[i])
	}
	return users, nil
}

// GetUser returns exactly one user by username or id.
func (c *Client) GetUser(ctx context.Context, usernameOrID string, opts UserGetOptions) (*User, error) {
	opts.UsernamesOrIDs = []string{usernameOrID}
	users, err := c.GetUsers(ctx, opts)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, notFound("user %q not found", usernameOrID)
	}
	return &users[0], nil
}

// UserCreateParams carries the user.create arguments zbxctl supports.
type UserCreateParams struct {
	Username     string
	Password     string
	Name         string
	Surname      string
	RoleID       string
	UsergroupIDs []string
}

// CreateUser creates a user and returns its new id. The username
// property name follows the server version.
func (c *Client) CreateUser(ctx context.Context, p UserCreateParams) (string, error) {
	if err := c.ensureVersion(ctx); err != nil {
		return "", err
	}

	params := map[string]any{
		c.traits.UserObjectField: p.Username,
		"passwd":                 p.Password,
		"usrgrps":                idRefs("usrgrpid", p.UsergroupIDs),
	}
	if p.Name != "" {
		params["name"] = p.Name
	}
	if p.Surname != "" {
		params["surname"] = p.Surname
	}
	if p.RoleID != "" {
		params["roleid"] = p.RoleID
	}

	result, err := c.call(ctx, "user.create", params)
	if err != nil {
		return "", wrapCall(err, "failed to create user %q", p.Username)
	}
	ids, err := bulkIDs(result, "user.create", "userids")
	if err != nil {
		return "", err
	}
	return ids[0], nil
}

// DeleteUsers deletes users by id.
func (c *Client) DeleteUsers(ctx context.Context, userIDs []string) ([]string, error) {
	result, err := c.call(ctx, "user.delete", userIDs)
	if err != nil {
		return nil, wrapCall(err, "failed to delete users")
	}
	return bulkIDs(result, "user.delete", "userids")
}

// GetRoles returns user roles matching the names or ids.
func (c *Client) GetRoles(ctx context.Context, namesOrIDs []string) ([]Role, error) {
	params := map[string]any{
		"output": []string{"roleid", "name", "type", "readonly"},
	}
	applyNameOrIDFilter(params, namesOrIDs, "roleids", "name")

	var roles []Role
	if err := c.callResult(ctx, "role.get", params, &roles); err != nil {
		return nil, wrapCall(err, "failed to get roles")
	}
	return roles, nil
}

func normalizeUser(u *User) {
	if u.Username == "" && u.Alias != "" {
		u.Username = u.Alias
	}
	u.Alias = ""
}
