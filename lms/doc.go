/*
Package lms wraps the Canvas REST API in course-shaped facades.

A Session holds the API client. From it a Course is picked by name, by id,
or from the nearest cached .staffeli.yml; the course in turn hands out its
sections, assignments, group categories and groups the same way:

	session := lms.NewSession(client, logger)
	course, err := session.Course(ctx, lms.Cached())
	if err != nil {
		return err
	}
	assignment, err := course.Assignment(ctx, lms.ByName("week 3"))

Every facade is built from a Resolvable, which picks it out of its parent's
listing, and a Cacheable, which reads and writes the local cache. Lookups never
guess: an ambiguous name is an error listing the candidates.
*/
package lms
