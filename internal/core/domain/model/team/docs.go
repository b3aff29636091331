// Package team holds the read-only view of the team directory: a team, its leader
// and the members orders can be assigned to.
//
// Teams are owned by the directory collaborator. The engines only read them to
// resolve allocation targets and to check who may act on an order.
package team
