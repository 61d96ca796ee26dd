package services

import "meetings-server/models"

// VisibleMeetings resolves the meeting listing for the actor's role.
// Super admins see everything. Admins, office managers and leaders with a
// department see their own meetings plus their department's, merged without
// duplicates. Everyone else sees only meetings they take part in.
func (s MeetingService) VisibleMeetings(actor Actor) ([]MeetingView, error) {
	if actor.Role == models.RoleSuperAdmin {
		return s.GetAll()
	}

	own, err := s.GetForUser(actor.ID)
	if err != nil {
		return nil, err
	}

	elevated := actor.Role == models.RoleAdmin ||
		actor.Role == models.RoleOfficeManager ||
		actor.Role == models.RoleLeader
	if !elevated || actor.DepartmentID == nil {
		return own, nil
	}

	departmental, err := s.GetByDepartment(*actor.DepartmentID)
	if err != nil {
		return nil, err
	}

	seen := make(map[uint]bool, len(own))
	for _, m := range own {
		seen[m.ID] = true
	}
	for _, m := range departmental {
		if seen[m.ID] {
			continue
		}
		seen[m.ID] = true
		own = append(own, m)
	}
	return own, nil
}
