// Package workspace manages the on-disk side of staffeli: locating files by
// walking up the directory tree, reading and writing the .staffeli.yml entity
// caches, and creating course directories.
//
// A course checkout looks like
//
//	Advanced Algorithms/
//	  .staffeli.yml          course
//	  students/.staffeli.yml students
//	  groups/.staffeli.yml   group categories
//	  groups/<category>.yml  groups with members
//	  subs/<assignment>/...  assignments and submissions
//
// and every command finds its context by searching upward from the
// working directory, at most MaxSearchDepth levels.
package workspace
