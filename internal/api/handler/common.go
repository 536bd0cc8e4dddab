package handler

import (
	"Inkcard/internal/pkg/consts"
	"io"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// currentUserID 取鉴权中间件注入的用户 ID，访客为零值
func currentUserID(c *gin.Context) primitive.ObjectID {
	raw := c.GetString("user_id")
	if raw == "" {
		return primitive.NilObjectID
	}
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID
	}
	return id
}

func isAdmin(c *gin.Context) bool {
	return c.GetString("role") == consts.RoleAdmin
}

func paramObjectID(c *gin.Context, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		return primitive.NilObjectID, false
	}
	return id, true
}

func getPagination(c *gin.Context) (int64, int64) {
	limit, err := strconv.ParseInt(c.DefaultQuery("limit", "20"), 10, 64)
	if err != nil {
		limit = 20
	}
	offset, err := strconv.ParseInt(c.DefaultQuery("offset", "0"), 10, 64)
	if err != nil {
		offset = 0
	}
	return limit, offset
}

// readImageFile 读取 multipart 里的可选图片，未携带时返回空
func readImageFile(c *gin.Context, field string) ([]byte, string, error) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		return nil, "", nil
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, "", err
	}
	defer func() {
		_ = file.Close()
	}()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, "", err
	}
	return data, fileHeader.Header.Get("Content-Type"), nil
}
