package main

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
)

// patronClaims are the claims carried by a signed patron session token.
type patronClaims struct {
	UserID string `json:"userId"`
	jwt.StandardClaims
}

// authMiddleware accepts an optional bearer token identifying the patron.
// Anonymous requests proceed without patron context; only a token that
// fails validation is logged.
func (svc *ServiceContext) authMiddleware(c *gin.Context) {
	tokenStr, err := getBearerToken(c.Request.Header.Get("Authorization"))
	if err != nil || svc.JWTKey == "" {
		c.Next()
		return
	}

	claims := &patronClaims{}
	_, jwtErr := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(svc.JWTKey), nil
	})
	if jwtErr != nil {
		log.Printf("WARN: invalid patron token: %s", jwtErr.Error())
		c.Next()
		return
	}

	c.Set("jwt", tokenStr)
	c.Set("patronID", claims.UserID)
	c.Next()
}

func getBearerToken(authorization string) (string, error) {
	components := strings.Split(strings.Join(strings.Fields(authorization), " "), " ")
	if len(components) != 2 || components[0] != "Bearer" || components[1] == "" {
		return "", errors.New("invalid authorization header")
	}
	return components[1], nil
}

// patronHeldIDs returns the set of bibliographic IDs the authenticated
// patron has already borrowed or reserved. Anonymous requests and upstream
// failures yield an empty set.
func (svc *ServiceContext) patronHeldIDs(c *gin.Context) map[string]bool {
	patronID := c.GetString("patronID")
	if patronID == "" {
		return nil
	}

	url := fmt.Sprintf("%s/patron/%s/items", svc.DAIAAPI, patronID)
	bodyBytes, err := svc.DAIAConnectorGet(url, c.GetString("jwt"), svc.FastHTTPClient)
	if err != nil {
		log.Printf("WARN: unable to get held items for patron %s: %s", patronID, err.Message)
		return nil
	}

	var resp struct {
		IDs []string `json:"ppns"`
	}
	if jsonErr := json.Unmarshal(bodyBytes, &resp); jsonErr != nil {
		log.Printf("WARN: unable to parse held items for patron %s: %s", patronID, jsonErr.Error())
		return nil
	}

	held := make(map[string]bool, len(resp.IDs))
	for _, id := range resp.IDs {
		held[id] = true
	}
	return held
}
