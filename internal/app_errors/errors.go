package app_errors

import "errors"

// auth
var ErrUserExists = errors.New("email already exists")
var ErrUserNotFound = errors.New("user not found")
var ErrIncorrectPassword = errors.New("incorrect password")
var ErrPasswordTooShort = errors.New("password must be at least 8 characters long")
var ErrPasswordMismatch = errors.New("passwords do not match")
var ErrUserInactive = errors.New("user account de-activated")
var ErrTokenNotFound = errors.New("token not found")
var ErrTokenExpired = errors.New("token expired")
var ErrOTPNotFound = errors.New("no verification code found for this email")
var ErrOTPExpired = errors.New("verification code has expired, please request a new one")
var ErrOTPInvalid = errors.New("invalid verification code")
var ErrAlreadyVerified = errors.New("email is already verified")
var ErrForbidden = errors.New("not authorized to perform this action")

// profile
var ErrProfileNotFound = errors.New("profile not found")
var ErrNothingToUpdate = errors.New("no valid fields to update")
var ErrInvalidProfileField = errors.New("invalid profile field")
var ErrSelfFollow = errors.New("cannot follow yourself")
var ErrAlreadyFollowing = errors.New("already following this user")
var ErrNotFollowing = errors.New("you are not following this user")
var ErrSearchQueryTooShort = errors.New("search query must be at least 2 characters")

// media
var ErrNotImage = errors.New("not image")
var ErrNotVideo = errors.New("not video")
var ErrFileSize = errors.New("file size error")

// content
var ErrCharacterNotFound = errors.New("character not found")
var ErrCharacterInUse = errors.New("character is used by a timeline")
var ErrTimelineNotFound = errors.New("timeline not found")
var ErrTimelineExists = errors.New("timeline with this title already exists")
var ErrStoryNotFound = errors.New("story not found")
var ErrInvalidStoryType = errors.New("story type must be between 1 and 12")
var ErrInvalidTimestamp = errors.New("timestamp time_sec must be positive")
var ErrOnThisDayNotFound = errors.New("no event found for this date")
var ErrOnThisDayExists = errors.New("an event already exists for this date")

// quiz
var ErrQuizNotFound = errors.New("quiz not found")
var ErrQuizExists = errors.New("quiz already exists for this story")
var ErrInvalidQuestion = errors.New("invalid question")
var ErrInvalidOption = errors.New("invalid option")
var ErrInvalidQuiz = errors.New("each question needs at least two options and exactly one correct option")

// game
var ErrGameQuestionNotFound = errors.New("game question not found")
var ErrGameOptionNotFound = errors.New("option not found for this question")
var ErrInvalidGameType = errors.New("invalid game type")
var ErrInvalidPagination = errors.New("invalid pagination parameters")

// community
var ErrCommunityNotFound = errors.New("community not found")
var ErrPostNotFound = errors.New("post not found")
var ErrCommentNotFound = errors.New("comment not found")
var ErrReportNotFound = errors.New("report not found")
var ErrAlreadyReported = errors.New("you have already reported this item")
var ErrInvalidReport = errors.New("invalid report")
var ErrInvalidVote = errors.New("vote_type must be 1 or -1")

// validation
var ErrMissingField = errors.New("required field is missing")
