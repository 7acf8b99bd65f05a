package supplier

import "context"

// Value queries for auxiliary endpoints (counts, prefix search, version).

// Count returns the number of supplier records.
func (s *Service) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeoutShort)
	defer cancel()

	count, err := s.repo.Count(ctx)
	if err != nil {
		return 0, storageErr(err, "count")
	}
	return count, nil
}

// LastnamesByPrefix returns the distinct lastnames starting with prefix.
func (s *Service) LastnamesByPrefix(ctx context.Context, prefix string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeoutShort)
	defer cancel()

	names, err := s.repo.LastnamesByPrefix(ctx, prefix)
	if err != nil {
		return nil, storageErr(err, "lastnamesByPrefix")
	}
	return names, nil
}

// EmailsByPrefix returns the email addresses starting with prefix.
func (s *Service) EmailsByPrefix(ctx context.Context, prefix string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeoutShort)
	defer cancel()

	emails, err := s.repo.EmailsByPrefix(ctx, prefix)
	if err != nil {
		return nil, storageErr(err, "emailsByPrefix")
	}
	return emails, nil
}

// VersionByID returns the stored version of a record, or (-1, nil) when the
// id is unknown.
func (s *Service) VersionByID(ctx context.Context, id string) (int, error) {
	found, err := s.FindByID(ctx, id)
	if err != nil {
		return -1, err
	}
	if found == nil {
		return -1, nil
	}
	return found.Version, nil
}
