package service

import (
	"errors"
)

const (
	BadRequest          = 400
	Unauthorized        = 401
	NotFound            = 404
	InternalServerError = 500
)

var (
	ErrParamInvalid         = errors.New("参数错误")
	ErrUserNotFound         = errors.New("用户不存在")
	ErrUserExist            = errors.New("用户名或邮箱已被占用")
	ErrPasswordIncorrect    = errors.New("密码错误")
	ErrUserFollowSelf       = errors.New("不能关注自己")
	ErrUserFollowExist      = errors.New("已关注该用户")
	ErrUserFollowNotExist   = errors.New("未关注该用户")
	ErrPostNotFound         = errors.New("帖子不存在")
	ErrCommentNotFound      = errors.New("评论不存在")
	ErrReplyNotFound        = errors.New("回复不存在")
	ErrNotificationNotFound = errors.New("通知不存在")
	ErrTaxonomyNotFound     = errors.New("分类或标签不存在")
	ErrTaxonomyExist        = errors.New("分类或标签已存在")
	ErrReportNotFound       = errors.New("举报不存在")
	ErrActionDuplicate      = errors.New("重复操作")
	ErrActionNotExist       = errors.New("未进行过该操作")
	ErrImageUpload          = errors.New("图片上传失败")
	UnauthorizedError       = errors.New("权限不足")
	UnExpectedError         = errors.New("系统异常，请稍后重试")
)

var ErrorMap = map[error]int{
	ErrParamInvalid:         BadRequest,
	ErrUserNotFound:         NotFound,
	ErrUserExist:            BadRequest,
	ErrPasswordIncorrect:    Unauthorized,
	ErrUserFollowSelf:       BadRequest,
	ErrUserFollowExist:      BadRequest,
	ErrUserFollowNotExist:   BadRequest,
	ErrPostNotFound:         NotFound,
	ErrCommentNotFound:      NotFound,
	ErrReplyNotFound:        NotFound,
	ErrNotificationNotFound: NotFound,
	ErrTaxonomyNotFound:     NotFound,
	ErrTaxonomyExist:        BadRequest,
	ErrReportNotFound:       NotFound,
	ErrActionDuplicate:      BadRequest,
	ErrActionNotExist:       BadRequest,
	ErrImageUpload:          BadRequest,
	UnauthorizedError:       Unauthorized,
	UnExpectedError:         InternalServerError,
}
