package catalog

import "github.com/EO-DataHub/eodhp-directory-admin/internal/directory"

// Every object type carrying an id also selects __typename so the client
// cache can normalize it.

var getUserDetails = directory.Operation{
	Name: "GetUserDetails",
	Document: `query GetUserDetails($id: String!) {
  user(userId: $id) {
    __typename
    id
    email
    avatar
    displayName
    firstName
    lastName
    creationDate
    uuid
    groups {
      __typename
      id
      displayName
    }
    attributes {
      name
      value
    }
  }
  schema {
    userSchema {
      attributes {
        name
        attributeType
        isList
        isVisible
        isEditable
        isHardcoded
        isReadonly
      }
    }
  }
}`,
}

var getGroupList = directory.Operation{
	Name: "GetGroupList",
	Document: `query GetGroupList {
  groups {
    __typename
    id
    displayName
    creationDate
  }
}`,
}

var getGroupDetails = directory.Operation{
	Name: "GetGroupDetails",
	Document: `query GetGroupDetails($id: Int!) {
  group(groupId: $id) {
    __typename
    id
    displayName
    creationDate
    uuid
    users {
      __typename
      id
      displayName
    }
    attributes {
      name
      value
    }
  }
}`,
}

var listUsers = directory.Operation{
	Name: "ListUsersQuery",
	Document: `query ListUsersQuery($filters: RequestFilter) {
  users(filters: $filters) {
    __typename
    id
    email
    avatar
    displayName
    firstName
    lastName
    creationDate
    groups {
      __typename
      id
      displayName
    }
  }
}`,
}

var listUserNames = directory.Operation{
	Name: "ListUserNames",
	Document: `query ListUserNames($filters: RequestFilter) {
  users(filters: $filters) {
    __typename
    id
    displayName
  }
}`,
}

var createUser = directory.Operation{
	Name: "CreateUser",
	Document: `mutation CreateUser($user: CreateUserInput!) {
  createUser(user: $user) {
    __typename
    id
    creationDate
  }
}`,
}

var createGroup = directory.Operation{
	Name: "CreateGroup",
	Document: `mutation CreateGroup($name: String!) {
  createGroup(name: $name) {
    __typename
    id
    displayName
  }
}`,
}

var updateUser = directory.Operation{
	Name: "UpdateUser",
	Document: `mutation UpdateUser($user: UpdateUserInput!) {
  updateUser(user: $user) {
    ok
  }
}`,
}

var deleteUser = directory.Operation{
	Name: "DeleteUserQuery",
	Document: `mutation DeleteUserQuery($user: String!) {
  deleteUser(userId: $user) {
    ok
  }
}`,
}

var deleteGroup = directory.Operation{
	Name: "DeleteGroupQuery",
	Document: `mutation DeleteGroupQuery($groupId: Int!) {
  deleteGroup(groupId: $groupId) {
    ok
  }
}`,
}

var addUserToGroup = directory.Operation{
	Name: "AddUserToGroup",
	Document: `mutation AddUserToGroup($user: String!, $group: Int!) {
  addUserToGroup(userId: $user, groupId: $group) {
    ok
  }
}`,
}

var removeUserFromGroup = directory.Operation{
	Name: "RemoveUserFromGroup",
	Document: `mutation RemoveUserFromGroup($user: String!, $group: Int!) {
  removeUserFromGroup(userId: $user, groupId: $group) {
    ok
  }
}`,
}

var createUserAttribute = directory.Operation{
	Name: "CreateUserAttribute",
	Document: `mutation CreateUserAttribute($name: String!, $attributeType: AttributeType!, $isList: Boolean!, $isVisible: Boolean!, $isEditable: Boolean!) {
  addUserAttribute(name: $name, attributeType: $attributeType, isList: $isList, isVisible: $isVisible, isEditable: $isEditable) {
    ok
  }
}`,
}

var createGroupAttribute = directory.Operation{
	Name: "CreateGroupAttribute",
	Document: `mutation CreateGroupAttribute($name: String!, $attributeType: AttributeType!, $isList: Boolean!, $isVisible: Boolean!) {
  addGroupAttribute(name: $name, attributeType: $attributeType, isList: $isList, isVisible: $isVisible, isEditable: false) {
    ok
  }
}`,
}

var deleteUserAttribute = directory.Operation{
	Name: "DeleteUserAttributeQuery",
	Document: `mutation DeleteUserAttributeQuery($name: String!) {
  deleteUserAttribute(name: $name) {
    ok
  }
}`,
}

var deleteGroupAttribute = directory.Operation{
	Name: "DeleteGroupAttributeQuery",
	Document: `mutation DeleteGroupAttributeQuery($name: String!) {
  deleteGroupAttribute(name: $name) {
    ok
  }
}`,
}

// Operations returns every operation of the catalog.
func Operations() []directory.Operation {
	return []directory.Operation{
		getUserDetails,
		getGroupList,
		getGroupDetails,
		listUsers,
		listUserNames,
		createUser,
		createGroup,
		updateUser,
		deleteUser,
		deleteGroup,
		addUserToGroup,
		removeUserFromGroup,
		createUserAttribute,
		createGroupAttribute,
		deleteUserAttribute,
		deleteGroupAttribute,
	}
}
